package cache

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/varoOP/fliq/internal/domain"
)

// MemoryStorage is an in-process storage medium. With a positive quota it
// refuses writes that would grow the stored bytes beyond it, the way browser
// storage does.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string][]byte
	size  int
	quota int
}

var _ domain.Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates a memory medium. quota <= 0 means unlimited.
func NewMemoryStorage(quota int) *MemoryStorage {
	return &MemoryStorage{
		items: make(map[string][]byte),
		quota: quota,
	}
}

func (m *MemoryStorage) GetItem(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryStorage) SetItem(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	grown := m.size + itemSize(key, value)
	if old, exists := m.items[key]; exists {
		grown -= itemSize(key, old)
	}
	if m.quota > 0 && grown > m.quota {
		return domain.ErrQuotaExceeded
	}

	v := make([]byte, len(value))
	copy(v, value)
	m.items[key] = v
	m.size = grown
	return nil
}

func (m *MemoryStorage) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.items[key]; ok {
		m.size -= itemSize(key, v)
		delete(m.items, key)
	}
	return nil
}

func (m *MemoryStorage) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := []string{}
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored keys.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *MemoryStorage) Close() error {
	return nil
}

func itemSize(key string, value []byte) int {
	return len(key) + len(value)
}
