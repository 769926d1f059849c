package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/garrettladley/payconiq/internal/paths"
	xredis "github.com/garrettladley/payconiq/internal/redis"
)

type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverRedis    Driver = "redis"
	DriverPostgres Driver = "postgres"
)

const memoryCleanupInterval = time.Hour

type Config struct {
	Driver      Driver `env:"DRIVER" envDefault:"memory"`
	FilePath    string `env:"FILE_PATH"`
	RedisURL    string `env:"REDIS_URL"`
	DatabaseURL string `env:"DATABASE_URL"`
}

// Open builds the cache selected by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemoryCache(memoryCleanupInterval), nil
	case DriverFile:
		path := cfg.FilePath
		if path == "" {
			p, err := paths.CacheDB()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewFileCache(ctx, path)
	case DriverRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("cache driver %q requires a redis url", cfg.Driver)
		}
		client, err := xredis.New(ctx, xredis.Config{URL: cfg.RedisURL})
		if err != nil {
			return nil, err
		}
		return NewRedisCache(RedisConfig{Client: client}), nil
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("cache driver %q requires a database url", cfg.Driver)
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres pool: %w", err)
		}
		c, err := NewPostgresCache(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q (valid: memory, file, redis, postgres)", cfg.Driver)
	}
}
