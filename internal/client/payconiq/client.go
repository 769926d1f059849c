package payconiq

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	go_json "github.com/goccy/go-json"
	"golang.org/x/oauth2"

	"github.com/garrettladley/payconiq/internal/endpoint"
	"github.com/garrettladley/payconiq/internal/env"
	"github.com/garrettladley/payconiq/internal/xhttp"
	"github.com/garrettladley/payconiq/internal/xslog"
)

type Client struct {
	Payments PaymentService

	baseURL    string
	production bool
	httpClient *http.Client
	logger     *slog.Logger
}

// New returns a client authenticated with the merchant API key. By default it
// talks to the production merchant API.
func New(apiKey string, opts ...Option) *Client {
	cfg := &clientConfig{
		baseURL:        endpoint.For(env.Production, false).API,
		production:     true,
		logger:         slog.Default(),
		timeout:        xhttp.DefaultTimeout,
		connectTimeout: xhttp.DefaultConnectTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	httpOpts := []xhttp.ClientOption{
		xhttp.WithTimeout(cfg.timeout),
		xhttp.WithConnectTimeout(cfg.connectTimeout),
	}
	if cfg.base != nil {
		httpOpts = append(httpOpts, xhttp.WithBaseTransport(cfg.base))
	}
	httpClient := xhttp.NewHTTPClient(httpOpts...)
	httpClient.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"}),
		Base:   httpClient.Transport,
	}

	c := &Client{
		baseURL:    cfg.baseURL,
		production: cfg.production,
		httpClient: httpClient,
		logger:     cfg.logger,
	}
	c.Payments = &paymentService{client: c}

	return c
}

type clientConfig struct {
	baseURL        string
	production     bool
	logger         *slog.Logger
	timeout        time.Duration
	connectTimeout time.Duration
	base           http.RoundTripper
}

type Option func(*clientConfig)

// WithBaseURL overrides the versioned API base, e.g. "https://api.ext.payconiq.com/v3".
func WithBaseURL(baseURL string) Option {
	return func(cfg *clientConfig) { cfg.baseURL = baseURL }
}

// WithEndpoints selects the API base for an environment.
func WithEndpoints(e env.Environment, legacy bool) Option {
	return func(cfg *clientConfig) {
		cfg.baseURL = endpoint.For(e, legacy).API
		cfg.production = e.IsProduction()
	}
}

// WithProduction controls whether APIError messages include trace details.
func WithProduction(production bool) Option {
	return func(cfg *clientConfig) { cfg.production = production }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) { cfg.logger = logger }
}

func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) { cfg.timeout = d }
}

func WithConnectTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) { cfg.connectTimeout = d }
}

// WithBaseTransport replaces the transport under the auth layer.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(cfg *clientConfig) { cfg.base = rt }
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, body any, result any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := go_json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	xhttp.SetRequestHeaderAcceptJSON(req)
	if body != nil {
		xhttp.SetRequestHeaderContentTypeJSON(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.DebugContext(ctx, "payconiq api request",
		slog.String("method", method),
		xslog.URL(path),
		xslog.HTTPStatus(resp.StatusCode),
		xslog.Duration(time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return parseAPIError(resp, c.production)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		if err := go_json.NewDecoder(bytes.NewReader(respBody)).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w\nbody: %s", err, string(respBody))
		}
	}

	return nil
}
