package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/garrettladley/payconiq/internal/migrations/postgres"
)

var (
	_ Cache  = (*PostgresCache)(nil)
	_ Pruner = (*PostgresCache)(nil)
)

type PostgresCache struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgresCache(ctx context.Context, pool *pgxpool.Pool) (*PostgresCache, error) {
	if err := postgres.Apply(ctx, pool); err != nil {
		return nil, fmt.Errorf("failed to migrate cache schema: %w", err)
	}
	return &PostgresCache{pool: pool, now: time.Now}, nil
}

func (c *PostgresCache) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := c.pool.QueryRow(ctx,
		"SELECT value FROM payconiq_cache_entries WHERE key = $1 AND expires_at > $2",
		key, c.now(),
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return value, nil
}

func (c *PostgresCache) Save(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.pool.Exec(ctx, `
		INSERT INTO payconiq_cache_entries (key, value, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
	`, key, value, c.now().Add(ttl))
	if err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

// Add inserts the entry, taking over an expired row but never a live one.
func (c *PostgresCache) Add(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	now := c.now()
	tag, err := c.pool.Exec(ctx, `
		INSERT INTO payconiq_cache_entries (key, value, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
		WHERE payconiq_cache_entries.expires_at <= $4
	`, key, value, now.Add(ttl), now)
	if err != nil {
		return false, fmt.Errorf("failed to add cache entry: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (c *PostgresCache) Delete(ctx context.Context, key string) error {
	if _, err := c.pool.Exec(ctx, "DELETE FROM payconiq_cache_entries WHERE key = $1", key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

func (c *PostgresCache) Prune(ctx context.Context) (int64, error) {
	tag, err := c.pool.Exec(ctx, "DELETE FROM payconiq_cache_entries WHERE expires_at <= $1", c.now())
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (c *PostgresCache) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *PostgresCache) Close() error {
	c.pool.Close()
	return nil
}
