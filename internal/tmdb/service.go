package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/fliq/internal/cache"
	"github.com/varoOP/fliq/internal/domain"
)

const (
	trendingLimit = 18
	similarLimit  = 12

	youtubeWatchURL = "https://www.youtube.com/watch?v="
)

type Service interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
	Details(ctx context.Context, id int) (*domain.MovieDetails, error)
	Trending(ctx context.Context) ([]domain.SearchResult, error)
	Similar(ctx context.Context, id int) ([]domain.SearchResult, error)
	Trailer(ctx context.Context, id int) (*string, error)
	PosterURL(path *string, size PosterSize) *string
}

type service struct {
	log     zerolog.Logger
	client  *http.Client
	cache   domain.Cache
	baseURL string
	imgURL  string
	policy  domain.FailurePolicy
}

type bearerTransport struct {
	Transport http.RoundTripper
	Token     string
}

func (b *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if b.Transport == nil {
		b.Transport = http.DefaultTransport
	}
	req.Header.Set("Authorization", "Bearer "+b.Token)
	req.Header.Set("Accept", "application/json")
	return b.Transport.RoundTrip(req)
}

func NewService(log zerolog.Logger, config *domain.Config, c domain.Cache) Service {
	return &service{
		log: log.With().Str("module", "tmdb").Logger(),
		client: &http.Client{
			Timeout:   config.HTTPTimeout,
			Transport: &bearerTransport{Token: config.TmdbReadToken},
		},
		cache:   c,
		baseURL: strings.TrimRight(config.TmdbBaseURL, "/"),
		imgURL:  strings.TrimRight(config.TmdbImageBaseURL, "/"),
		policy:  config.CatalogPolicy,
	}
}

func (s *service) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.SearchResult{}, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	params.Set("page", "1")

	var resp listResponse
	if err := s.get(ctx, "/search/movie", params, &resp); err != nil {
		return []domain.SearchResult{}, s.fail(err, "search")
	}

	return resp.results(0), nil
}

// Details never applies the failure policy: callers cannot build a view
// without it.
func (s *service) Details(ctx context.Context, id int) (*domain.MovieDetails, error) {
	key := fmt.Sprintf("tmdb_details_%d", id)

	var cached domain.MovieDetails
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	var resp detailsResponse
	if err := s.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &resp); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch details for %d", id)
	}

	details := s.normalizeDetails(resp)
	s.cache.Set(ctx, key, details, cache.TTLDetails)

	return details, nil
}

func (s *service) Trending(ctx context.Context) ([]domain.SearchResult, error) {
	const key = "tmdb_trending"

	var cached []domain.SearchResult
	if s.cache.Get(ctx, key, &cached) && cached != nil {
		return cached, nil
	}

	var resp listResponse
	if err := s.get(ctx, "/trending/movie/week", nil, &resp); err != nil {
		return []domain.SearchResult{}, s.fail(err, "trending")
	}

	results := resp.results(trendingLimit)
	s.cache.Set(ctx, key, results, cache.TTLTrending)

	return results, nil
}

func (s *service) Similar(ctx context.Context, id int) ([]domain.SearchResult, error) {
	key := fmt.Sprintf("tmdb_similar_%d", id)

	var cached []domain.SearchResult
	if s.cache.Get(ctx, key, &cached) && cached != nil {
		return cached, nil
	}

	params := url.Values{}
	params.Set("page", "1")

	var resp listResponse
	if err := s.get(ctx, fmt.Sprintf("/movie/%d/similar", id), params, &resp); err != nil {
		return []domain.SearchResult{}, s.fail(err, "similar")
	}

	results := resp.results(similarLimit)
	s.cache.Set(ctx, key, results, cache.TTLSimilar)

	return results, nil
}

// Trailer returns the watch URL of the preferred video, or nil when the movie
// has none. A nil result is cached as well.
func (s *service) Trailer(ctx context.Context, id int) (*string, error) {
	key := fmt.Sprintf("tmdb_trailer_%d", id)

	var cached *string
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	var resp videosResponse
	if err := s.get(ctx, fmt.Sprintf("/movie/%d/videos", id), nil, &resp); err != nil {
		return nil, s.fail(err, "trailer")
	}

	var trailer *string
	if v := pickTrailer(resp.Results); v != nil {
		u := youtubeWatchURL + v.Key
		trailer = &u
	}

	s.cache.Set(ctx, key, trailer, cache.TTLTrailer)
	return trailer, nil
}

func (s *service) PosterURL(path *string, size PosterSize) *string {
	return imageURL(s.imgURL, path, size)
}

func (s *service) normalizeDetails(resp detailsResponse) *domain.MovieDetails {
	genres := make([]string, 0, len(resp.Genres))
	for _, g := range resp.Genres {
		genres = append(genres, g.Name)
	}

	var imdbID *string
	if resp.ImdbID != nil && *resp.ImdbID != "" {
		imdbID = resp.ImdbID
	}

	return &domain.MovieDetails{
		ID:            resp.ID,
		Title:         resp.Title,
		Overview:      resp.Overview,
		PosterURL:     imageURL(s.imgURL, resp.PosterPath, sizeDetailPoster),
		BackdropURL:   imageURL(s.imgURL, resp.BackdropPath, sizeBackdrop),
		ReleaseDate:   resp.ReleaseDate,
		Year:          domain.YearOf(resp.ReleaseDate),
		TMDBRating:    resp.VoteAverage,
		TMDBVoteCount: resp.VoteCount,
		Runtime:       resp.Runtime,
		Genres:        genres,
		IMDbID:        imdbID,
	}
}

// fail applies the failure policy. Swallowed failures are logged and
// reported as nil.
func (s *service) fail(err error, op string) error {
	if s.policy == domain.PolicyPropagate {
		return errors.Wrapf(err, "tmdb %s", op)
	}

	s.log.Warn().Err(err).Str("op", op).Msg("catalog request failed, using default")
	return nil
}

func (s *service) get(ctx context.Context, path string, params url.Values, dest any) error {
	u, err := url.Parse(s.baseURL + path)
	if err != nil {
		return errors.Wrap(err, "failed to parse url")
	}

	query := u.Query()
	for k, v := range params {
		query[k] = v
	}
	query.Set("language", "en-US")
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	s.log.Trace().Str("path", path).Msg("request")

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to fetch")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.UpstreamError{Source: "tmdb", StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}

	return nil
}

// PosterSize is an image width bucket of the image CDN.
type PosterSize string

const (
	SizeSmall  PosterSize = "w185"
	SizeMedium PosterSize = "w342"
	SizeLarge  PosterSize = "w500"

	sizeDetailPoster PosterSize = "w500"
	sizeBackdrop     PosterSize = "w1280"
)

func imageURL(base string, path *string, size PosterSize) *string {
	if path == nil || *path == "" {
		return nil
	}
	if size == "" {
		size = SizeMedium
	}

	u := base + "/" + string(size) + *path
	return &u
}

// PosterURL builds an image URL on the default image host.
func PosterURL(path *string, size PosterSize) *string {
	return imageURL(DefaultImageBaseURL, path, size)
}

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
)
