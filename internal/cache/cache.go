// Package cache provides the expiring key/value cache used by the source
// adapters. Entries live on a domain.Storage medium under a fixed key prefix
// so unrelated data sharing the medium is never touched.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/fliq/internal/domain"
)

// Prefix namespaces every cache key on the storage medium.
const Prefix = "fliq_cache_"

const (
	TTLOneHour = time.Hour
	TTLOneDay  = 24 * time.Hour
	TTLOneWeek = 7 * 24 * time.Hour
)

// TTL classes by data volatility.
const (
	TTLTrending  = TTLOneHour
	TTLStreaming = TTLOneDay
	TTLDetails   = TTLOneWeek
	TTLRatings   = TTLOneWeek
	TTLSimilar   = TTLOneWeek
	TTLTrailer   = TTLOneWeek
)

// entry is the serialised form: {"value": ..., "expires": <epoch ms>}.
type entry struct {
	Value   json.RawMessage `json:"value"`
	Expires int64           `json:"expires"`
}

// Store implements domain.Cache on top of a storage medium.
type Store struct {
	log     zerolog.Logger
	storage domain.Storage
	now     func() time.Time

	// guards the get-then-remove sequence on the medium
	mu sync.Mutex
}

var _ domain.Cache = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a cache store over storage.
func NewStore(log zerolog.Logger, storage domain.Storage, opts ...Option) *Store {
	s := &Store{
		log:     log.With().Str("module", "cache").Logger(),
		storage: storage,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get decodes the live entry for key into dest. Missing, corrupt and expired
// entries all report false; expired ones are removed as well.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.read(ctx, Prefix+key)
	if !ok {
		s.log.Trace().Str("key", key).Msg("cache miss")
		return false
	}

	if !s.live(e) {
		s.remove(ctx, Prefix+key)
		s.log.Trace().Str("key", key).Msg("cache entry expired")
		return false
	}

	if err := json.Unmarshal(e.Value, dest); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("cache value does not decode")
		return false
	}

	s.log.Trace().Str("key", key).Msg("cache hit")
	return true
}

// Set stores value under key until ttl elapses. Failures are dropped: the
// caller proceeds as if caching were disabled.
func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("cache value does not encode")
		return
	}

	data, err := json.Marshal(entry{
		Value:   raw,
		Expires: s.now().Add(ttl).UnixMilli(),
	})
	if err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("cache entry does not encode")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.SetItem(ctx, Prefix+key, data); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("cache write dropped")
	}
}

// Prune removes every expired or unreadable cache entry and returns how many
// were removed.
func (s *Store) Prune(ctx context.Context) (int, error) {
	keys, err := s.storage.Keys(ctx, Prefix)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list cache keys")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, key := range keys {
		if e, ok := s.read(ctx, key); ok && s.live(e) {
			continue
		}
		if err := s.storage.RemoveItem(ctx, key); err != nil {
			return removed, errors.Wrapf(err, "failed to remove %s", key)
		}
		removed++
	}

	s.log.Debug().Int("removed", removed).Int("checked", len(keys)).Msg("cache pruned")
	return removed, nil
}

// Clear removes every cache entry, leaving other keys on the medium alone.
func (s *Store) Clear(ctx context.Context) (int, error) {
	keys, err := s.storage.Keys(ctx, Prefix)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list cache keys")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, key := range keys {
		if err := s.storage.RemoveItem(ctx, key); err != nil {
			return i, errors.Wrapf(err, "failed to remove %s", key)
		}
	}

	return len(keys), nil
}

func (s *Store) read(ctx context.Context, key string) (entry, bool) {
	var e entry
	data, ok, err := s.storage.GetItem(ctx, key)
	if err != nil {
		s.log.Debug().Err(err).Str("key", strings.TrimPrefix(key, Prefix)).Msg("cache read failed")
		return e, false
	}
	if !ok || len(data) == 0 {
		return e, false
	}
	if err := json.Unmarshal(data, &e); err != nil || e.Value == nil {
		return e, false
	}
	return e, true
}

// live reports whether the entry is visible: now < expires.
func (s *Store) live(e entry) bool {
	return s.now().UnixMilli() < e.Expires
}

func (s *Store) remove(ctx context.Context, key string) {
	if err := s.storage.RemoveItem(ctx, key); err != nil {
		s.log.Debug().Err(err).Str("key", strings.TrimPrefix(key, Prefix)).Msg("failed to purge expired entry")
	}
}
