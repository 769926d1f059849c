package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appName     = "payconiq"
	cacheDBName = "cache.db"
)

// Dir returns the per-user cache directory for payconiq.
func Dir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user cache directory: %w", err)
	}
	return filepath.Join(base, appName), nil
}

func EnsureDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", appName, err)
	}
	return dir, nil
}

// CacheDB returns the default path of the file-backed cache, creating its
// directory if needed.
func CacheDB() (string, error) {
	dir, err := EnsureDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, cacheDBName), nil
}
