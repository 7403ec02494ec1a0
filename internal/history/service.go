package history

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sahilm/fuzzy"
	"github.com/varoOP/fliq/internal/domain"
)

const (
	// Key is stored outside the cache prefix so cache maintenance leaves it alone.
	Key = "fliq_search_history"

	MaxEntries = 5
)

type Service interface {
	List(ctx context.Context) ([]domain.HistoryEntry, error)
	Add(ctx context.Context, r domain.SearchResult) ([]domain.HistoryEntry, error)
	Clear(ctx context.Context) error
	Filter(ctx context.Context, query string) ([]domain.HistoryEntry, error)
}

type service struct {
	log     zerolog.Logger
	storage domain.Storage

	// serialises the read-modify-write in Add against Clear
	mu sync.Mutex
}

func NewService(log zerolog.Logger, storage domain.Storage) Service {
	return &service{
		log:     log.With().Str("module", "history").Logger(),
		storage: storage,
	}
}

// List returns the entries newest first. An unreadable history reads as empty.
func (s *service) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	return s.read(ctx)
}

func (s *service) read(ctx context.Context) ([]domain.HistoryEntry, error) {
	data, ok, err := s.storage.GetItem(ctx, Key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read history")
	}

	entries := []domain.HistoryEntry{}
	if !ok {
		return entries, nil
	}

	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		s.log.Debug().Err(err).Msg("discarding unreadable history")
		return []domain.HistoryEntry{}, nil
	}

	return entries, nil
}

// Add moves r to the front, dropping any older entry for the same movie and
// anything past MaxEntries.
func (s *service) Add(ctx context.Context, r domain.SearchResult) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	next := make([]domain.HistoryEntry, 0, MaxEntries)
	next = append(next, domain.HistoryEntry{
		ID:     r.ID,
		Title:  r.Title,
		Year:   r.Year(),
		Poster: r.PosterPath,
	})

	for _, e := range entries {
		if len(next) == MaxEntries {
			break
		}
		if e.ID != r.ID {
			next = append(next, e)
		}
	}

	data, err := json.Marshal(next)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode history")
	}

	if err := s.storage.SetItem(ctx, Key, data); err != nil {
		return nil, errors.Wrap(err, "failed to save history")
	}

	s.log.Debug().Int("id", r.ID).Str("title", r.Title).Msg("added to history")
	return next, nil
}

func (s *service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return errors.Wrap(s.storage.RemoveItem(ctx, Key), "failed to clear history")
}

// Filter fuzzy-matches query against the entry titles, best match first. An
// empty query returns every entry.
func (s *service) Filter(ctx context.Context, query string) ([]domain.HistoryEntry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return entries, nil
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), titles(entries))

	out := make([]domain.HistoryEntry, 0, len(matches))
	for _, m := range matches {
		out = append(out, entries[m.Index])
	}
	return out, nil
}

// titles implements fuzzy.Source over lowercased entry titles.
type titles []domain.HistoryEntry

func (t titles) String(i int) string { return strings.ToLower(t[i].Title) }

func (t titles) Len() int { return len(t) }
