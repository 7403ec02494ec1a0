// Package aggregator assembles the movie view from the catalog, ratings and
// streaming sources.
package aggregator

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"github.com/varoOP/fliq/internal/dedupe"
	"github.com/varoOP/fliq/internal/domain"
)

// Catalog is the part of the catalog adapter the aggregator needs.
type Catalog interface {
	Details(ctx context.Context, id int) (*domain.MovieDetails, error)
	Similar(ctx context.Context, id int) ([]domain.SearchResult, error)
	Trailer(ctx context.Context, id int) (*string, error)
}

type RatingsSource interface {
	Ratings(ctx context.Context, imdbID string) (domain.Ratings, error)
}

type StreamingSource interface {
	Availability(ctx context.Context, tmdbID int) ([]domain.StreamingOption, error)
}

type Service interface {
	Load(ctx context.Context, id int) (*domain.MovieView, error)
}

type service struct {
	log       zerolog.Logger
	catalog   Catalog
	ratings   RatingsSource
	streaming StreamingSource
}

func NewService(log zerolog.Logger, catalog Catalog, ratings RatingsSource, streaming StreamingSource) Service {
	return &service{
		log:       log.With().Str("module", "aggregator").Logger(),
		catalog:   catalog,
		ratings:   ratings,
		streaming: streaming,
	}
}

// Load fetches the details first, then the four enrichments concurrently. A
// details failure fails the load; any other failure only empties its section.
func (s *service) Load(ctx context.Context, id int) (*domain.MovieView, error) {
	details, err := s.catalog.Details(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load movie %d", id)
	}

	var ratings domain.Ratings
	var trailer *string
	options := []domain.StreamingOption{}
	similar := []domain.SearchResult{}

	var wg conc.WaitGroup

	if details.IMDbID != nil {
		imdbID := *details.IMDbID
		wg.Go(func() {
			s.isolate("ratings", id, func() error {
				r, err := s.ratings.Ratings(ctx, imdbID)
				if err != nil {
					return err
				}
				ratings = r
				return nil
			})
		})
	}

	wg.Go(func() {
		s.isolate("streaming", id, func() error {
			o, err := s.streaming.Availability(ctx, id)
			if err != nil {
				return err
			}
			if o != nil {
				options = o
			}
			return nil
		})
	})

	wg.Go(func() {
		s.isolate("similar", id, func() error {
			r, err := s.catalog.Similar(ctx, id)
			if err != nil {
				return err
			}
			if r != nil {
				similar = r
			}
			return nil
		})
	})

	wg.Go(func() {
		s.isolate("trailer", id, func() error {
			u, err := s.catalog.Trailer(ctx, id)
			if err != nil {
				return err
			}
			trailer = u
			return nil
		})
	})

	wg.Wait()

	merged := *details
	merged.ApplyRatings(ratings)

	return &domain.MovieView{
		Details:    &merged,
		Streaming:  options,
		Offers:     dedupe.Group(options),
		Similar:    similar,
		TrailerURL: trailer,
	}, nil
}

// isolate runs one enrichment step. Errors and panics are logged and leave
// the step's default in place.
func (s *service) isolate(step string, id int, fn func() error) {
	var pc panics.Catcher
	var err error

	pc.Try(func() { err = fn() })

	if r := pc.Recovered(); r != nil {
		s.log.Warn().Str("step", step).Int("id", id).Str("panic", r.String()).Msg("enrichment panicked, using default")
		return
	}
	if err != nil {
		s.log.Warn().Err(err).Str("step", step).Int("id", id).Msg("enrichment failed, using default")
	}
}
