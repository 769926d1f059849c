package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestFileCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	c, err := NewFileCache(ctx, path)
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	clock := &fakeClock{t: time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)}
	c.now = clock.now

	if err := c.Save(ctx, "short", []byte("1"), time.Minute); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := c.Save(ctx, "long", []byte("2"), time.Hour); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := c.Save(ctx, "long", []byte("3"), time.Hour); err != nil {
		t.Fatalf("Save() overwrite error = %v", err)
	}

	got, err := c.Load(ctx, "long")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != "3" {
		t.Errorf("Load() = %q, want %q", got, "3")
	}

	clock.advance(2 * time.Minute)
	if _, err := c.Load(ctx, "short"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() expired error = %v, want ErrNotFound", err)
	}

	n, err := c.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Prune() = %d, want 1", n)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewFileCache(ctx, path)
	if err != nil {
		t.Fatalf("reopening cache: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })
	reopened.now = clock.now

	got, err = reopened.Load(ctx, "long")
	if err != nil {
		t.Fatalf("Load() after reopen error = %v", err)
	}
	if string(got) != "3" {
		t.Errorf("Load() after reopen = %q, want %q", got, "3")
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "default memory", cfg: Config{}},
		{name: "memory", cfg: Config{Driver: DriverMemory}},
		{name: "file", cfg: Config{Driver: DriverFile, FilePath: filepath.Join(t.TempDir(), "c.db")}},
		{name: "redis without url", cfg: Config{Driver: DriverRedis}, wantErr: true},
		{name: "postgres without url", cfg: Config{Driver: DriverPostgres}, wantErr: true},
		{name: "unknown", cfg: Config{Driver: "etcd"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := Open(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if c != nil {
				_ = c.Close()
			}
		})
	}
}

func TestFileCache_Add(t *testing.T) {
	t.Parallel()

	c, err := NewFileCache(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	clock := &fakeClock{t: time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)}
	c.now = clock.now

	assertAdd(t, c, clock.advance)
}
