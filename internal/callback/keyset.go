package callback

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"golang.org/x/sync/singleflight"

	"github.com/garrettladley/payconiq/internal/storage"
	"github.com/garrettladley/payconiq/internal/xhttp"
	"github.com/garrettladley/payconiq/internal/xslog"
)

const (
	KeySetTTL = 12 * time.Hour

	keySetCacheKeyPrefix = "payconiq_certificates_"
	maxKeySetBytes       = 1 << 20
)

// KeySetResolver returns the JWK Set published at certificatesURL.
type KeySetResolver interface {
	KeySet(ctx context.Context, certificatesURL string) (jwk.Set, error)
}

// KeySetCache fetches JWK Sets over HTTPS and keeps the raw documents in a
// storage.Cache for KeySetTTL.
type KeySetCache struct {
	cache      storage.Cache
	httpClient *http.Client
	ttl        time.Duration
	group      singleflight.Group
}

var _ KeySetResolver = (*KeySetCache)(nil)

type KeySetCacheOption func(*KeySetCache)

func WithKeySetTTL(d time.Duration) KeySetCacheOption {
	return func(c *KeySetCache) { c.ttl = d }
}

func NewKeySetCache(cache storage.Cache, httpClient *http.Client, opts ...KeySetCacheOption) *KeySetCache {
	if httpClient == nil {
		httpClient = xhttp.NewHTTPClient()
	}
	c := &KeySetCache{
		cache:      cache,
		httpClient: httpClient,
		ttl:        KeySetTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// KeySetCacheKey is the cache key for the document at certificatesURL.
func KeySetCacheKey(certificatesURL string) string {
	sum := md5.Sum([]byte(certificatesURL))
	return keySetCacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *KeySetCache) KeySet(ctx context.Context, certificatesURL string) (jwk.Set, error) {
	key := KeySetCacheKey(certificatesURL)

	// The shared fetch outlives any single caller; the HTTP client timeout
	// bounds it. A caller that gives up only abandons its own wait.
	ch := c.group.DoChan(key, func() (any, error) {
		return storage.GetOrCompute(context.WithoutCancel(ctx), c.cache, key, c.ttl, func(ctx context.Context) ([]byte, error) {
			return c.fetch(ctx, certificatesURL)
		})
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrKeySetFetch, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	set, err := jwk.Parse(res.Val.([]byte))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeySetParse, err)
	}
	return set, nil
}

// fetch downloads and validates the key set document. Only documents that parse
// as a JWK Set are returned, so nothing invalid reaches the cache.
func (c *KeySetCache) fetch(ctx context.Context, certificatesURL string) ([]byte, error) {
	logger := xslog.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, certificatesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrKeySetFetch, err)
	}
	xhttp.SetRequestHeaderAcceptJSON(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: executing request: %w", ErrKeySetFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d from %s", ErrKeySetFetch, resp.StatusCode, certificatesURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxKeySetBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrKeySetFetch, err)
	}

	set, err := jwk.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeySetParse, err)
	}

	logger.InfoContext(ctx, "fetched key set",
		xslog.URL(certificatesURL),
		xslog.KeyCount(set.Len()),
		xslog.Duration(time.Since(start)),
	)

	return body, nil
}
