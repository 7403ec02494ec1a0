package domain

import (
	"context"
	"time"
)

// Storage is the persistent key/value medium shared by the cache and the
// search history. Implementations must be safe for concurrent use.
type Storage interface {
	// GetItem returns the stored bytes; ok is false if the key is absent.
	GetItem(ctx context.Context, key string) (value []byte, ok bool, err error)
	SetItem(ctx context.Context, key string, value []byte) error
	// RemoveItem deletes the key; absence is not an error.
	RemoveItem(ctx context.Context, key string) error
	// Keys lists every key starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Cache is the expiring cache contract the source adapters depend on.
// Neither method reports failures: a broken cache behaves like an empty one.
type Cache interface {
	// Get decodes the live entry for key into dest and reports whether it did.
	Get(ctx context.Context, key string, dest any) bool
	// Set stores value under key until ttl elapses.
	Set(ctx context.Context, key string, value any, ttl time.Duration)
}
