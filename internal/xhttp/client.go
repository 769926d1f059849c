package xhttp

import (
	"net/http"
	"time"
)

const (
	DefaultTimeout        = 10 * time.Second
	DefaultConnectTimeout = 2 * time.Second
)

type clientConfig struct {
	timeout        time.Duration
	connectTimeout time.Duration
	base           http.RoundTripper
}

type ClientOption func(*clientConfig)

func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) { c.timeout = d }
}

// WithConnectTimeout bounds the TCP dial. Ignored when WithBaseTransport is set.
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) { c.connectTimeout = d }
}

func WithBaseTransport(rt http.RoundTripper) ClientOption {
	return func(c *clientConfig) { c.base = rt }
}

func NewHTTPClient(opts ...ClientOption) *http.Client {
	cfg := &clientConfig{
		timeout:        DefaultTimeout,
		connectTimeout: DefaultConnectTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	base := cfg.base
	if base == nil {
		base = newDialTransport(cfg.connectTimeout)
	}

	return &http.Client{
		Transport: &payconiqTransport{base: base},
		Timeout:   cfg.timeout,
	}
}
