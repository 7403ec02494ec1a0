// Package store provides a BoltDB storage medium. Reads are promoted into an
// in-memory map so repeated cache lookups do not hit the file.
package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/fliq/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var bucketItems = []byte("fliq")

// BoltStorage implements domain.Storage using BoltDB.
type BoltStorage struct {
	log zerolog.Logger
	db  *bolt.DB
	mu  sync.RWMutex // Protects memory cache

	// Promoted on access
	cache map[string][]byte
	// Bumped on every write; a read only promotes if no write landed since.
	writes uint64

	// hook between the bolt read and promotion, set by tests
	beforePromote func()
}

var _ domain.Storage = (*BoltStorage)(nil)

// NewBoltStorage opens (creating if needed) fliq.bolt inside dir.
func NewBoltStorage(log zerolog.Logger, dir string) (*BoltStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "unable to create data dir %s", dir)
	}

	dbPath := filepath.Join(dir, "fliq.bolt")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open bolt db")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketItems)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create bucket")
	}

	return &BoltStorage{
		log:   log.With().Str("repo", "bolt").Logger(),
		db:    db,
		cache: make(map[string][]byte),
	}, nil
}

func (s *BoltStorage) GetItem(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return clone(data), true, nil
	}
	seen := s.writes
	s.mu.RUnlock()

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketItems).Get([]byte(key)); v != nil {
			data = clone(v)
		}
		return nil
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "bolt view")
	}

	if data == nil {
		return nil, false, nil
	}

	if s.beforePromote != nil {
		s.beforePromote()
	}

	s.mu.Lock()
	if s.writes == seen {
		s.cache[key] = data
		s.log.Trace().Str("key", key).Msg("promoted")
	}
	s.mu.Unlock()

	return clone(data), true, nil
}

func (s *BoltStorage) SetItem(_ context.Context, key string, value []byte) error {
	data := clone(value)

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketItems).Put([]byte(key), data)
	})
	if err != nil {
		return errors.Wrapf(err, "bolt put %s", key)
	}

	s.mu.Lock()
	s.cache[key] = data
	s.writes++
	s.mu.Unlock()

	return nil
}

func (s *BoltStorage) RemoveItem(_ context.Context, key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketItems).Delete([]byte(key))
	})
	if err != nil {
		return errors.Wrapf(err, "bolt delete %s", key)
	}

	s.mu.Lock()
	delete(s.cache, key)
	s.writes++
	s.mu.Unlock()

	return nil
}

// Keys scans the bucket from prefix with a cursor. Bolt keeps keys sorted.
func (s *BoltStorage) Keys(_ context.Context, prefix string) ([]string, error) {
	keys := []string{}
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketItems).Cursor()
		for k, _ := c.Seek([]byte(prefix)); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "bolt scan")
	}

	sort.Strings(keys)
	return keys, nil
}

func (s *BoltStorage) Close() error {
	return s.db.Close()
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
