package history

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varoOP/fliq/internal/cache"
	"github.com/varoOP/fliq/internal/domain"
)

func result(id int, title, date string) domain.SearchResult {
	poster := "/poster.jpg"
	return domain.SearchResult{ID: id, Title: title, ReleaseDate: date, PosterPath: &poster}
}

func ids(entries []domain.HistoryEntry) []int {
	out := []int{}
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

// slowStorage delays reads so concurrent read-modify-write cycles overlap.
type slowStorage struct {
	*cache.MemoryStorage
}

func (s slowStorage) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	time.Sleep(time.Millisecond)
	return s.MemoryStorage.GetItem(ctx, key)
}

func TestConcurrentAddKeepsEveryEntry(t *testing.T) {
	ctx := context.Background()
	svc := NewService(zerolog.Nop(), slowStorage{cache.NewMemoryStorage(0)})

	var wg sync.WaitGroup
	for i := 1; i <= 3; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := svc.Add(ctx, result(id, "Movie", "2020-01-01"))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3}, ids(entries))
}

func TestHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyByDefault", func(t *testing.T) {
		svc := NewService(zerolog.Nop(), cache.NewMemoryStorage(0))

		entries, err := svc.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("ReselectMovesToFront", func(t *testing.T) {
		svc := NewService(zerolog.Nop(), cache.NewMemoryStorage(0))

		_, err := svc.Add(ctx, result(1, "A", "2001-01-01"))
		require.NoError(t, err)
		_, err = svc.Add(ctx, result(2, "B", "2002-01-01"))
		require.NoError(t, err)
		entries, err := svc.Add(ctx, result(1, "A", "2001-01-01"))
		require.NoError(t, err)

		assert.Equal(t, []int{1, 2}, ids(entries))

		stored, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, entries, stored)
		assert.Equal(t, "2001", stored[0].Year)
		require.NotNil(t, stored[0].Poster)
	})

	t.Run("CappedAtFive", func(t *testing.T) {
		svc := NewService(zerolog.Nop(), cache.NewMemoryStorage(0))

		for i := 1; i <= 7; i++ {
			_, err := svc.Add(ctx, result(i, "Movie", ""))
			require.NoError(t, err)
		}

		entries, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{7, 6, 5, 4, 3}, ids(entries))
		assert.Equal(t, "", entries[0].Year)
	})

	t.Run("CorruptReadsAsEmpty", func(t *testing.T) {
		storage := cache.NewMemoryStorage(0)
		require.NoError(t, storage.SetItem(ctx, Key, []byte("{not json")))
		svc := NewService(zerolog.Nop(), storage)

		entries, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)

		entries, err = svc.Add(ctx, result(9, "Recovered", "1999-03-31"))
		require.NoError(t, err)
		assert.Equal(t, []int{9}, ids(entries))
	})

	t.Run("Clear", func(t *testing.T) {
		svc := NewService(zerolog.Nop(), cache.NewMemoryStorage(0))

		_, err := svc.Add(ctx, result(1, "A", ""))
		require.NoError(t, err)
		require.NoError(t, svc.Clear(ctx))
		require.NoError(t, svc.Clear(ctx))

		entries, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("SurvivesCacheClear", func(t *testing.T) {
		storage := cache.NewMemoryStorage(0)
		svc := NewService(zerolog.Nop(), storage)
		store := cache.NewStore(zerolog.Nop(), storage)

		_, err := svc.Add(ctx, result(1, "A", ""))
		require.NoError(t, err)
		store.Set(ctx, "tmdb_trending", []int{1}, cache.TTLTrending)

		_, err = store.Clear(ctx)
		require.NoError(t, err)

		entries, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestFilter(t *testing.T) {
	ctx := context.Background()
	svc := NewService(zerolog.Nop(), cache.NewMemoryStorage(0))

	for i, title := range []string{"Inception", "Interstellar", "The Dark Knight"} {
		_, err := svc.Add(ctx, result(i+1, title, ""))
		require.NoError(t, err)
	}

	all, err := svc.Filter(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := svc.Filter(ctx, "DARK")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "The Dark Knight", got[0].Title)

	got, err = svc.Filter(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, got)
}
