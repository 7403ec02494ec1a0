package omdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/fliq/internal/cache"
	"github.com/varoOP/fliq/internal/domain"
)

const DefaultBaseURL = "https://www.omdbapi.com"

const notAvailable = "N/A"

type Service interface {
	Ratings(ctx context.Context, imdbID string) (domain.Ratings, error)
}

type service struct {
	log     zerolog.Logger
	client  *http.Client
	cache   domain.Cache
	baseURL string
	apiKey  string
	policy  domain.FailurePolicy
}

type response struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	ImdbRating string `json:"imdbRating"`
	Awards     string `json:"Awards"`
	Ratings    []struct {
		Source string `json:"Source"`
		Value  string `json:"Value"`
	} `json:"Ratings"`
}

func NewService(log zerolog.Logger, config *domain.Config, c domain.Cache) Service {
	return &service{
		log:     log.With().Str("module", "omdb").Logger(),
		client:  &http.Client{Timeout: config.HTTPTimeout},
		cache:   c,
		baseURL: strings.TrimRight(config.OmdbBaseURL, "/"),
		apiKey:  config.OmdbApiKey,
		policy:  config.RatingsPolicy,
	}
}

func (s *service) Ratings(ctx context.Context, imdbID string) (domain.Ratings, error) {
	key := "omdb_" + imdbID

	var cached domain.Ratings
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	resp, err := s.fetch(ctx, imdbID)
	if err != nil {
		return domain.Ratings{}, s.fail(err, imdbID)
	}

	if resp.Response == "False" {
		return domain.Ratings{}, s.fail(errors.Errorf("omdb: %s", resp.Error), imdbID)
	}

	ratings := normalize(resp)
	s.cache.Set(ctx, key, ratings, cache.TTLRatings)

	return ratings, nil
}

func (s *service) fetch(ctx context.Context, imdbID string) (*response, error) {
	params := url.Values{}
	params.Set("apikey", s.apiKey)
	params.Set("i", imdbID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.UpstreamError{Source: "omdb", StatusCode: resp.StatusCode}
	}

	r := &response{}
	if err := json.NewDecoder(resp.Body).Decode(r); err != nil {
		return nil, errors.Wrap(err, "failed to decode response")
	}

	return r, nil
}

func (s *service) fail(err error, imdbID string) error {
	if s.policy == domain.PolicyPropagate {
		return errors.Wrapf(err, "ratings for %s", imdbID)
	}

	s.log.Warn().Err(err).Str("imdb_id", imdbID).Msg("ratings request failed, using default")
	return nil
}

func normalize(r *response) domain.Ratings {
	ratings := domain.Ratings{
		IMDbRating: known(r.ImdbRating),
		Awards:     known(r.Awards),
	}

	for _, rating := range r.Ratings {
		switch rating.Source {
		case "Rotten Tomatoes":
			if ratings.RottenTomatoesScore == nil {
				ratings.RottenTomatoesScore = known(rating.Value)
			}
		case "Metacritic":
			if ratings.MetacriticScore == nil {
				ratings.MetacriticScore = known(rating.Value)
			}
		}
	}

	return ratings
}

// known maps the empty and "N/A" sentinels to nil.
func known(v string) *string {
	if v == "" || v == notAvailable {
		return nil
	}
	return &v
}
