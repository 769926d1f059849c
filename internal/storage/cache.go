package storage

import (
	"context"
	"errors"
	"time"

	"github.com/garrettladley/payconiq/internal/xslog"
)

// GetOrCompute returns the cached value for key, calling compute on a miss and
// storing its result for ttl. Errors from compute are returned unchanged and
// nothing is stored. A failing cache is logged and bypassed.
func GetOrCompute(ctx context.Context, c Cache, key string, ttl time.Duration, compute ComputeFunc) ([]byte, error) {
	logger := xslog.FromContext(ctx)

	value, err := c.Load(ctx, key)
	if err == nil {
		logger.DebugContext(ctx, "cache hit", xslog.CacheKey(key))
		return value, nil
	}
	if !errors.Is(err, ErrNotFound) {
		logger.WarnContext(ctx, "cache load failed, computing value",
			xslog.CacheKey(key),
			xslog.Error(err),
		)
	}

	value, err = compute(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.Save(ctx, key, value, ttl); err != nil {
		logger.WarnContext(ctx, "cache save failed",
			xslog.CacheKey(key),
			xslog.Error(err),
		)
	}

	return value, nil
}
