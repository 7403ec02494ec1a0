package domain

import "time"

// FailurePolicy decides what an adapter does when its source fails.
type FailurePolicy string

const (
	// PolicySwallow logs the failure and returns the safe default.
	PolicySwallow FailurePolicy = "swallow"
	// PolicyPropagate returns the failure to the caller.
	PolicyPropagate FailurePolicy = "propagate"
)

// CacheDriver selects the storage medium.
type CacheDriver string

const (
	CacheDriverSQLite CacheDriver = "sqlite"
	CacheDriverBolt   CacheDriver = "bolt"
	CacheDriverRedis  CacheDriver = "redis"
	CacheDriverMemory CacheDriver = "memory"
)

type Config struct {
	TmdbReadToken string `toml:"tmdb_read_token" mapstructure:"tmdb_read_token"`
	OmdbApiKey    string `toml:"omdb_api_key" mapstructure:"omdb_api_key"`
	RapidApiKey   string `toml:"rapidapi_key" mapstructure:"rapidapi_key"`

	TmdbBaseURL      string `toml:"tmdb_base_url" mapstructure:"tmdb_base_url"`
	TmdbImageBaseURL string `toml:"tmdb_image_base_url" mapstructure:"tmdb_image_base_url"`
	OmdbBaseURL      string `toml:"omdb_base_url" mapstructure:"omdb_base_url"`
	StreamingBaseURL string `toml:"streaming_base_url" mapstructure:"streaming_base_url"`
	StreamingHost    string `toml:"streaming_host" mapstructure:"streaming_host"`

	CacheDriver      CacheDriver `toml:"cache_driver" mapstructure:"cache_driver"`
	DataDir          string      `toml:"data_dir" mapstructure:"data_dir"`
	RedisURL         string      `toml:"redis_url" mapstructure:"redis_url"`
	MemoryQuotaBytes int         `toml:"memory_quota_bytes" mapstructure:"memory_quota_bytes"`

	CatalogPolicy   FailurePolicy `toml:"catalog_policy" mapstructure:"catalog_policy"`
	RatingsPolicy   FailurePolicy `toml:"ratings_policy" mapstructure:"ratings_policy"`
	StreamingPolicy FailurePolicy `toml:"streaming_policy" mapstructure:"streaming_policy"`

	DiscordWebhookURL string `toml:"discord_webhook_url" mapstructure:"discord_webhook_url"`

	HTTPTimeout time.Duration `toml:"http_timeout" mapstructure:"http_timeout"`
	LogLevel    string        `toml:"log_level" mapstructure:"log_level"`
}
