package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Cache = (*RedisCache)(nil)

const redisKeyPrefix = "payconiq:cache:"

type RedisConfig struct {
	Client *redis.Client
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg RedisConfig) *RedisCache {
	return &RedisCache{client: cfg.Client}
}

func (c *RedisCache) Load(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return value, nil
}

func (c *RedisCache) Save(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, redisKeyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

func (c *RedisCache) Add(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, redisKeyPrefix+key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to add cache entry: %w", err)
	}
	return ok, nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
