package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/varoOP/fliq/internal/domain"
)

// RedisStorage is a storage medium backed by Redis. Expiry stays in the
// cache entries themselves so every medium behaves the same.
type RedisStorage struct {
	log    zerolog.Logger
	client *redis.Client
}

var _ domain.Storage = (*RedisStorage)(nil)

// NewRedisStorage connects to the Redis instance at url.
func NewRedisStorage(log zerolog.Logger, url string) (*RedisStorage, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "invalid redis URL")
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to connect to redis")
	}

	l := log.With().Str("repo", "redis").Logger()
	l.Debug().Str("addr", opts.Addr).Int("db", opts.DB).Msg("redis storage connected")

	return &RedisStorage{log: l, client: client}, nil
}

func (r *RedisStorage) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "failed to get item from redis")
	}
	return data, true, nil
}

func (r *RedisStorage) SetItem(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		// redis reports maxmemory refusals as OOM errors
		if redis.IsOOMError(err) {
			return domain.ErrQuotaExceeded
		}
		return errors.Wrap(err, "failed to set item in redis")
	}
	return nil
}

func (r *RedisStorage) RemoveItem(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return errors.Wrap(err, "failed to delete item from redis")
	}
	return nil
}

func (r *RedisStorage) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	iter := r.client.Scan(ctx, 0, fmt.Sprintf("%s*", prefix), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to scan redis keys")
	}
	return keys, nil
}

func (r *RedisStorage) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
