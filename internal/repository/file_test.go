package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varoOP/fliq/internal/domain"
)

func TestFileRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewFileRepository(zerolog.Nop())
	dir := t.TempDir()

	imdb := "8.8"
	view := &domain.MovieView{
		Details:   &domain.MovieDetails{ID: 27205, Title: "Inception", Genres: []string{"Action"}, IMDbRating: &imdb},
		Streaming: []domain.StreamingOption{{Service: "Netflix", Kind: domain.OfferSubscription}},
	}

	for _, name := range []string{"nested/inception.json", "inception.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, repo.Store(ctx, path, view))

			var got domain.MovieView
			require.NoError(t, repo.Get(ctx, path, &got))
			assert.Equal(t, "Inception", got.Details.Title)
			require.NotNil(t, got.Details.IMDbRating)
			assert.Equal(t, "8.8", *got.Details.IMDbRating)
			require.Len(t, got.Streaming, 1)
			assert.Equal(t, domain.OfferSubscription, got.Streaming[0].Kind)
		})
	}

	t.Run("YAMLIsYAML", func(t *testing.T) {
		b, err := os.ReadFile(filepath.Join(dir, "inception.yaml"))
		require.NoError(t, err)
		assert.Contains(t, string(b), "title: Inception")
	})

	t.Run("Missing", func(t *testing.T) {
		var got domain.MovieView
		assert.Error(t, repo.Get(ctx, filepath.Join(dir, "nope.json"), &got))
		assert.Error(t, repo.Get(ctx, dir, &got))
	})
}
