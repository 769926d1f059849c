package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("cache entry not found")

// Cache is a process-shared key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Load returns the value stored under key.
	// Returns ErrNotFound if the key does not exist or has expired.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores value under key for ttl.
	Save(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Add stores value under key for ttl only if no live entry exists, and
	// reports whether it did. Concurrent Adds of one key succeed at most once.
	Add(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error

	Close() error
}

// Pruner is implemented by caches that keep expired rows until asked to drop them.
type Pruner interface {
	Prune(ctx context.Context) (int64, error)
}

// ComputeFunc produces the value for a missing cache entry.
type ComputeFunc func(ctx context.Context) ([]byte, error)
