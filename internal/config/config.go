package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/varoOP/fliq/internal/domain"
	"github.com/varoOP/fliq/internal/omdb"
	"github.com/varoOP/fliq/internal/streaming"
	"github.com/varoOP/fliq/internal/tmdb"
)

const (
	defaultDataDir     = "."
	defaultHTTPTimeout = 30 * time.Second
	defaultLogLevel    = "info"
)

// Load loads configuration from multiple sources:
// 1. Config file (config.yaml or .fliq, optional)
// 2. Environment variables (FLIQ_*)
// 3. Command line flags bound by the root command
func Load() (*domain.Config, error) {
	cfg := &domain.Config{}

	cfg.TmdbReadToken = viper.GetString("tmdb_read_token")
	cfg.OmdbApiKey = viper.GetString("omdb_api_key")
	cfg.RapidApiKey = viper.GetString("rapidapi_key")
	cfg.DiscordWebhookURL = viper.GetString("discord_webhook_url")

	cfg.TmdbBaseURL = stringOr("tmdb_base_url", tmdb.DefaultBaseURL)
	cfg.TmdbImageBaseURL = stringOr("tmdb_image_base_url", tmdb.DefaultImageBaseURL)
	cfg.OmdbBaseURL = stringOr("omdb_base_url", omdb.DefaultBaseURL)
	cfg.StreamingBaseURL = stringOr("streaming_base_url", streaming.DefaultBaseURL)
	cfg.StreamingHost = stringOr("streaming_host", streaming.DefaultHost)

	cfg.DataDir = stringOr("data_dir", defaultDataDir)
	cfg.RedisURL = viper.GetString("redis_url")
	cfg.MemoryQuotaBytes = viper.GetInt("memory_quota_bytes")
	cfg.LogLevel = stringOr("log_level", defaultLogLevel)

	cfg.HTTPTimeout = viper.GetDuration("http_timeout")
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}

	// Cache driver (default: "sqlite")
	driverStr := viper.GetString("cache_driver")
	if driverStr == "" {
		cfg.CacheDriver = domain.CacheDriverSQLite
	} else {
		cfg.CacheDriver = domain.CacheDriver(driverStr)
		if cfg.CacheDriver != domain.CacheDriverSQLite &&
			cfg.CacheDriver != domain.CacheDriverBolt &&
			cfg.CacheDriver != domain.CacheDriverRedis &&
			cfg.CacheDriver != domain.CacheDriverMemory {
			return nil, fmt.Errorf("invalid cache_driver: %s (must be 'sqlite', 'bolt', 'redis', or 'memory')", driverStr)
		}
	}

	if cfg.CacheDriver == domain.CacheDriverRedis && cfg.RedisURL == "" {
		return nil, fmt.Errorf("redis_url is required when cache_driver is 'redis' (set via config.yaml or FLIQ_REDIS_URL environment variable)")
	}

	// Failure policies per source
	var err error
	if cfg.CatalogPolicy, err = policy("catalog_policy", domain.PolicySwallow); err != nil {
		return nil, err
	}
	if cfg.RatingsPolicy, err = policy("ratings_policy", domain.PolicySwallow); err != nil {
		return nil, err
	}
	if cfg.StreamingPolicy, err = policy("streaming_policy", domain.PolicyPropagate); err != nil {
		return nil, err
	}

	// Validate required fields
	if cfg.TmdbReadToken == "" {
		return nil, fmt.Errorf("tmdb_read_token is required (set via config.yaml or FLIQ_TMDB_READ_TOKEN environment variable): %w", domain.ErrNotConfigured)
	}

	return cfg, nil
}

func stringOr(key, def string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return def
}

func policy(key string, def domain.FailurePolicy) (domain.FailurePolicy, error) {
	v := viper.GetString(key)
	if v == "" {
		return def, nil
	}

	p := domain.FailurePolicy(v)
	if p != domain.PolicySwallow && p != domain.PolicyPropagate {
		return "", fmt.Errorf("invalid %s: %s (must be 'swallow' or 'propagate')", key, v)
	}
	return p, nil
}
