package app

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/fliq/internal/aggregator"
	"github.com/varoOP/fliq/internal/cache"
	"github.com/varoOP/fliq/internal/config"
	"github.com/varoOP/fliq/internal/database"
	"github.com/varoOP/fliq/internal/domain"
	"github.com/varoOP/fliq/internal/history"
	"github.com/varoOP/fliq/internal/logger"
	"github.com/varoOP/fliq/internal/notification"
	"github.com/varoOP/fliq/internal/omdb"
	"github.com/varoOP/fliq/internal/repository"
	"github.com/varoOP/fliq/internal/store"
	"github.com/varoOP/fliq/internal/streaming"
	"github.com/varoOP/fliq/internal/tmdb"
	"github.com/varoOP/fliq/internal/viewer"
)

// searchLimit bounds the result list shown for a query
const searchLimit = 8

// App represents the main application with all dependencies initialized
type App struct {
	log     zerolog.Logger
	config  *domain.Config
	storage domain.Storage
	cache   *cache.Store

	tmdbService         tmdb.Service
	omdbService         omdb.Service
	streamingService    streaming.Service
	aggregatorService   aggregator.Service
	historyService      history.Service
	notificationService notification.Service
	fileRepo            *repository.FileRepository

	Viewer *viewer.Viewer
}

// NewApp loads configuration and creates an application instance with all
// dependencies initialized
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return New(logger.NewLoggerWithLevel(level), cfg)
}

// New creates an application instance from an already loaded config
func New(log zerolog.Logger, cfg *domain.Config) (*App, error) {
	if cfg.OmdbApiKey == "" {
		log.Warn().Msg("omdb_api_key is not set, critic ratings will be unavailable")
	}
	if cfg.RapidApiKey == "" {
		log.Warn().Msg("rapidapi_key is not set, streaming availability will be unavailable")
	}

	storage, err := openStorage(log, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.CacheDriver, err)
	}

	cacheStore := cache.NewStore(log, storage)

	tmdbService := tmdb.NewService(log, cfg, cacheStore)
	omdbService := omdb.NewService(log, cfg, cacheStore)
	streamingService := streaming.NewService(log, cfg, cacheStore)
	aggregatorService := aggregator.NewService(log, tmdbService, omdbService, streamingService)

	return &App{
		log:                 log,
		config:              cfg,
		storage:             storage,
		cache:               cacheStore,
		tmdbService:         tmdbService,
		omdbService:         omdbService,
		streamingService:    streamingService,
		aggregatorService:   aggregatorService,
		historyService:      history.NewService(log, storage),
		notificationService: notification.NewService(log, cfg.DiscordWebhookURL),
		fileRepo:            repository.NewFileRepository(log),
		Viewer:              viewer.New(log, aggregatorService),
	}, nil
}

func openStorage(log zerolog.Logger, cfg *domain.Config) (domain.Storage, error) {
	switch cfg.CacheDriver {
	case domain.CacheDriverMemory:
		return cache.NewMemoryStorage(cfg.MemoryQuotaBytes), nil

	case domain.CacheDriverRedis:
		return cache.NewRedisStorage(log, cfg.RedisURL)

	case domain.CacheDriverBolt:
		return store.NewBoltStorage(log, cfg.DataDir)

	case domain.CacheDriverSQLite, "":
		db, err := database.NewDB(cfg.DataDir, log)
		if err != nil {
			return nil, err
		}
		return database.NewStorageRepo(log, db), nil

	default:
		return nil, errors.Errorf("unknown cache driver %q", cfg.CacheDriver)
	}
}

// Close releases the storage medium
func (a *App) Close() error {
	return a.storage.Close()
}

// Search returns at most searchLimit catalog hits for query
func (a *App) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	results, err := a.tmdbService.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	if len(results) > searchLimit {
		results = results[:searchLimit]
	}
	return results, nil
}

func (a *App) Trending(ctx context.Context) ([]domain.SearchResult, error) {
	results, err := a.tmdbService.Trending(ctx)
	if err != nil {
		return nil, fmt.Errorf("trending failed: %w", err)
	}
	return results, nil
}

// Show loads the movie through the viewer and waits for its final state
func (a *App) Show(ctx context.Context, id int) (*domain.MovieView, error) {
	snap, ok := <-a.Viewer.Show(ctx, id)
	if !ok {
		return nil, errors.Errorf("request for movie %d was superseded", id)
	}
	if snap.State == viewer.StateError {
		return nil, errors.New(snap.Err)
	}
	return snap.View, nil
}

// Select records r in the search history and shows it
func (a *App) Select(ctx context.Context, r domain.SearchResult) (*domain.MovieView, error) {
	if _, err := a.historyService.Add(ctx, r); err != nil {
		a.log.Warn().Err(err).Int("id", r.ID).Msg("failed to save search history")
	}
	return a.Show(ctx, r.ID)
}

// History returns the recent searches, fuzzy filtered when filter is set
func (a *App) History(ctx context.Context, filter string) ([]domain.HistoryEntry, error) {
	entries, err := a.historyService.Filter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

func (a *App) ClearHistory(ctx context.Context) error {
	if err := a.historyService.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// PruneCache removes expired and unreadable cache entries
func (a *App) PruneCache(ctx context.Context) (int, error) {
	n, err := a.cache.Prune(ctx)
	if err != nil {
		return n, fmt.Errorf("failed to prune cache: %w", err)
	}
	a.log.Info().Int("removed", n).Msg("cache pruned")
	return n, nil
}

// ClearCache removes every cache entry, leaving the search history
func (a *App) ClearCache(ctx context.Context) (int, error) {
	n, err := a.cache.Clear(ctx)
	if err != nil {
		return n, fmt.Errorf("failed to clear cache: %w", err)
	}
	a.log.Info().Int("removed", n).Msg("cache cleared")
	return n, nil
}

func (a *App) Share(ctx context.Context, view *domain.MovieView) error {
	if err := a.notificationService.Share(ctx, view); err != nil {
		return fmt.Errorf("failed to share: %w", err)
	}
	return nil
}

// Export writes v to path
func (a *App) Export(ctx context.Context, path string, v any) error {
	return a.fileRepo.Store(ctx, path, v)
}

// Import reads a view written by Export
func (a *App) Import(ctx context.Context, path string) (*domain.MovieView, error) {
	view := &domain.MovieView{}
	if err := a.fileRepo.Get(ctx, path, view); err != nil {
		return nil, err
	}
	if view.Details == nil {
		return nil, errors.Errorf("%s does not contain a movie view", path)
	}
	return view, nil
}
