package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache backed by a Redis server.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis connects to the Redis server at url. Keys are namespaced with prefix.
func NewRedis(ctx context.Context, url, prefix string) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &Redis{rdb: rdb, prefix: prefix}, nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(rdb *redis.Client, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.rdb.Get(ctx, r.prefix+key).Result()
	return value, translate(err)
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.rdb.Set(ctx, r.prefix+key, value, ttl).Err()
}

func (r *Redis) GetDel(ctx context.Context, key string) (string, error) {
	value, err := r.rdb.GetDel(ctx, r.prefix+key).Result()
	return value, translate(err)
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

func translate(err error) error {
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	return err
}
