package store

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T, dir string) *BoltStorage {
	t.Helper()
	s, err := NewBoltStorage(zerolog.Nop(), dir)
	require.NoError(t, err)
	return s
}

func TestBoltStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("PersistsAcrossReopen", func(t *testing.T) {
		dir := t.TempDir()

		s := newTestStorage(t, dir)
		require.NoError(t, s.SetItem(ctx, "fliq_cache_a", []byte("1")))
		require.NoError(t, s.Close())

		s = newTestStorage(t, dir)
		defer s.Close()

		v, ok, err := s.GetItem(ctx, "fliq_cache_a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "1", string(v))
	})

	t.Run("PromotedReadsAreCopies", func(t *testing.T) {
		s := newTestStorage(t, t.TempDir())
		defer s.Close()

		require.NoError(t, s.SetItem(ctx, "k", []byte("abc")))

		v, _, err := s.GetItem(ctx, "k")
		require.NoError(t, err)
		v[0] = 'z'

		v, _, err = s.GetItem(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(v))
	})

	t.Run("KeysAndRemove", func(t *testing.T) {
		s := newTestStorage(t, t.TempDir())
		defer s.Close()

		for _, k := range []string{"fliq_cache_b", "fliq_cache_a", "fliq_search_history"} {
			require.NoError(t, s.SetItem(ctx, k, []byte("x")))
		}

		keys, err := s.Keys(ctx, "fliq_cache_")
		require.NoError(t, err)
		assert.Equal(t, []string{"fliq_cache_a", "fliq_cache_b"}, keys)

		require.NoError(t, s.RemoveItem(ctx, "fliq_cache_a"))
		require.NoError(t, s.RemoveItem(ctx, "fliq_cache_a"))

		_, ok, err := s.GetItem(ctx, "fliq_cache_a")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestReadDoesNotPromoteOverConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s := newTestStorage(t, dir)
	require.NoError(t, s.SetItem(ctx, "fliq_cache_a", []byte("old")))
	require.NoError(t, s.SetItem(ctx, "fliq_cache_b", []byte("old")))
	require.NoError(t, s.Close())

	s = newTestStorage(t, dir)
	defer s.Close()

	t.Run("Set", func(t *testing.T) {
		s.beforePromote = func() {
			s.beforePromote = nil
			require.NoError(t, s.SetItem(ctx, "fliq_cache_a", []byte("new")))
		}

		v, ok, err := s.GetItem(ctx, "fliq_cache_a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "old", string(v))

		v, ok, err = s.GetItem(ctx, "fliq_cache_a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "new", string(v))
	})

	t.Run("Remove", func(t *testing.T) {
		s.beforePromote = func() {
			s.beforePromote = nil
			require.NoError(t, s.RemoveItem(ctx, "fliq_cache_b"))
		}

		_, ok, err := s.GetItem(ctx, "fliq_cache_b")
		require.NoError(t, err)
		assert.True(t, ok)

		_, ok, err = s.GetItem(ctx, "fliq_cache_b")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
