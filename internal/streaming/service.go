package streaming

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/fliq/internal/cache"
	"github.com/varoOP/fliq/internal/domain"
)

const (
	DefaultBaseURL = "https://streaming-availability.p.rapidapi.com"
	DefaultHost    = "streaming-availability.p.rapidapi.com"

	region = "us"
)

type Service interface {
	Availability(ctx context.Context, tmdbID int) ([]domain.StreamingOption, error)
}

type service struct {
	log     zerolog.Logger
	client  *http.Client
	cache   domain.Cache
	baseURL string
	policy  domain.FailurePolicy
}

type rapidAPITransport struct {
	Transport http.RoundTripper
	Key       string
	Host      string
}

func (t *rapidAPITransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Transport == nil {
		t.Transport = http.DefaultTransport
	}
	req.Header.Set("X-RapidAPI-Key", t.Key)
	req.Header.Set("X-RapidAPI-Host", t.Host)
	return t.Transport.RoundTrip(req)
}

func NewService(log zerolog.Logger, config *domain.Config, c domain.Cache) Service {
	return &service{
		log: log.With().Str("module", "streaming").Logger(),
		client: &http.Client{
			Timeout:   config.HTTPTimeout,
			Transport: &rapidAPITransport{Key: config.RapidApiKey, Host: config.StreamingHost},
		},
		cache:   c,
		baseURL: strings.TrimRight(config.StreamingBaseURL, "/"),
		policy:  config.StreamingPolicy,
	}
}

// Availability lists the US offers for a movie. A movie unknown to the
// service yields an empty, uncached list.
func (s *service) Availability(ctx context.Context, tmdbID int) ([]domain.StreamingOption, error) {
	key := fmt.Sprintf("streaming_%d", tmdbID)

	var cached []domain.StreamingOption
	if s.cache.Get(ctx, key, &cached) && cached != nil {
		return cached, nil
	}

	show, err := s.fetch(ctx, tmdbID)
	if err != nil {
		return []domain.StreamingOption{}, s.fail(err, tmdbID)
	}
	if show == nil {
		s.log.Debug().Int("tmdb_id", tmdbID).Msg("show not found")
		return []domain.StreamingOption{}, nil
	}

	offers, ok := show.StreamingOptions[region]
	if !ok || offers == nil {
		return []domain.StreamingOption{}, nil
	}

	options := make([]domain.StreamingOption, 0, len(offers))
	for _, o := range offers {
		options = append(options, o.normalize())
	}

	s.cache.Set(ctx, key, options, cache.TTLStreaming)
	return options, nil
}

// fetch returns a nil show on 404.
func (s *service) fetch(ctx context.Context, tmdbID int) (*showResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/shows/movie/%d", s.baseURL, tmdbID), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.UpstreamError{Source: "streaming", StatusCode: resp.StatusCode}
	}

	show := &showResponse{}
	if err := json.NewDecoder(resp.Body).Decode(show); err != nil {
		return nil, errors.Wrap(err, "failed to decode response")
	}

	return show, nil
}

func (s *service) fail(err error, tmdbID int) error {
	if s.policy == domain.PolicyPropagate {
		return errors.Wrapf(err, "streaming availability for %d", tmdbID)
	}

	s.log.Warn().Err(err).Int("tmdb_id", tmdbID).Msg("streaming request failed, using default")
	return nil
}
