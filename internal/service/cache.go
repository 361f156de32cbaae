package service

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// ConfigCache is the cache surface the bench-config path needs. Redis backs
// it in production; tests use an in-memory map.
type ConfigCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type RedisConfigCache struct {
	Client *redis.Client
}

func NewRedisConfigCache(client *redis.Client) *RedisConfigCache {
	return &RedisConfigCache{Client: client}
}

func (c *RedisConfigCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisConfigCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisConfigCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}
