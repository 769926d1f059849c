package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/garrettladley/payconiq/internal/migrations"
)

var (
	_ Cache  = (*FileCache)(nil)
	_ Pruner = (*FileCache)(nil)
)

// FileCache persists entries in a local SQLite database so that cached
// documents survive process restarts.
type FileCache struct {
	db  *sql.DB
	now func() time.Time
}

func NewFileCache(ctx context.Context, path string) (*FileCache, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := migrations.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}

	return &FileCache{db: db, now: time.Now}, nil
}

func (c *FileCache) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := c.db.QueryRowContext(ctx,
		"SELECT value FROM cache_entries WHERE key = ? AND expires_at > ?",
		key, c.now().UnixNano(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return value, nil
}

func (c *FileCache) Save(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, key, value, c.now().Add(ttl).UnixNano())
	if err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

// Add inserts the entry, taking over an expired row but never a live one.
func (c *FileCache) Add(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	now := c.now()
	res, err := c.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
		WHERE cache_entries.expires_at <= ?
	`, key, value, now.Add(ttl).UnixNano(), now.UnixNano())
	if err != nil {
		return false, fmt.Errorf("failed to add cache entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to add cache entry: %w", err)
	}
	return n == 1, nil
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Prune removes expired entries and reports how many were dropped.
func (c *FileCache) Prune(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE expires_at <= ?", c.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache entries: %w", err)
	}
	return res.RowsAffected()
}

func (c *FileCache) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *FileCache) Close() error {
	return c.db.Close()
}
