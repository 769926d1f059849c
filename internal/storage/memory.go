package storage

import (
	"context"
	"slices"
	"sync"
	"time"
)

var _ Cache = (*MemoryCache)(nil)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time

	done     chan struct{}
	interval time.Duration
	once     sync.Once
}

// NewMemoryCache returns an in-process cache. When cleanupInterval is positive a
// background loop evicts expired entries until Close is called; otherwise expired
// entries are only dropped when read.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	c := &MemoryCache{
		entries:  make(map[string]memoryEntry),
		now:      time.Now,
		done:     make(chan struct{}),
		interval: cleanupInterval,
	}
	if cleanupInterval > 0 {
		go c.cleanupLoop()
	}
	return c
}

func (c *MemoryCache) Load(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		if current, ok := c.entries[key]; ok && current.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, ErrNotFound
	}
	return slices.Clone(entry.value), nil
}

func (c *MemoryCache) Save(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = memoryEntry{
		value:     slices.Clone(value),
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Add(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok && now.Before(entry.expiresAt) {
		return false, nil
	}
	c.entries[key] = memoryEntry{
		value:     slices.Clone(value),
		expiresAt: now.Add(ttl),
	}
	return true, nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Ping(context.Context) error { return nil }

func (c *MemoryCache) cleanupLoop() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.done:
			return
		}
	}
}

func (c *MemoryCache) cleanup() {
	now := c.now()
	c.mu.Lock()
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}
