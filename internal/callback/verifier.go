package callback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"

	"github.com/garrettladley/payconiq/internal/storage"
	"github.com/garrettladley/payconiq/internal/xhttp"
	"github.com/garrettladley/payconiq/internal/xslog"
)

// Verifier validates the detached JWS Payconiq sends in the Signature header
// of every payment callback.
type Verifier struct {
	certificatesURL string
	production      bool
	resolver        KeySetResolver
	checkers        []HeaderChecker
	logger          *slog.Logger
}

type verifierConfig struct {
	production bool
	resolver   KeySetResolver
	cache      storage.Cache
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*verifierConfig)

// WithProduction hides the underlying cause in VerificationError messages.
func WithProduction(production bool) Option {
	return func(cfg *verifierConfig) { cfg.production = production }
}

// WithKeySetResolver replaces the default KeySetCache.
func WithKeySetResolver(r KeySetResolver) Option {
	return func(cfg *verifierConfig) { cfg.resolver = r }
}

// WithCache sets the store backing the default KeySetCache.
func WithCache(c storage.Cache) Option {
	return func(cfg *verifierConfig) { cfg.cache = c }
}

// WithHTTPClient sets the client used to fetch key sets.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *verifierConfig) { cfg.httpClient = c }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *verifierConfig) { cfg.logger = logger }
}

// WithClock sets the time source for the issued-at check.
func WithClock(now func() time.Time) Option {
	return func(cfg *verifierConfig) { cfg.now = now }
}

func NewVerifier(profileID string, certificatesURL string, opts ...Option) *Verifier {
	cfg := &verifierConfig{
		production: true,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	resolver := cfg.resolver
	if resolver == nil {
		cache := cfg.cache
		if cache == nil {
			cache = storage.NewMemoryCache(0)
		}
		httpClient := cfg.httpClient
		if httpClient == nil {
			httpClient = xhttp.NewHTTPClient()
		}
		resolver = NewKeySetCache(cache, httpClient)
	}

	return &Verifier{
		certificatesURL: certificatesURL,
		production:      cfg.production,
		resolver:        resolver,
		checkers:        DefaultCheckers(profileID, cfg.now),
		logger:          cfg.logger,
	}
}

// IsValid reports whether token is a valid callback signature. A nil payload
// means the payload is embedded in the token; otherwise payload is the raw
// callback body the detached signature was computed over.
func (v *Verifier) IsValid(ctx context.Context, token string, payload []byte) bool {
	_, err := v.verify(ctx, token, payload)
	return err == nil
}

// Verify is IsValid returning the verified header and payload. Every failure is
// a *VerificationError wrapping one of the package sentinels.
func (v *Verifier) Verify(ctx context.Context, token string, payload []byte) (*VerifiedToken, error) {
	verified, err := v.verify(ctx, token, payload)
	if err != nil {
		v.logger.WarnContext(ctx, "callback verification failed",
			xslog.URL(v.certificatesURL),
			xslog.Error(err),
		)
		return nil, &VerificationError{Production: v.production, Err: err}
	}
	return verified, nil
}

func (v *Verifier) verify(ctx context.Context, token string, payload []byte) (*VerifiedToken, error) {
	token = NormalizeSignature(token, ES256PartLen)

	set, err := v.resolver.KeySet(ctx, v.certificatesURL)
	if err != nil {
		if !errors.Is(err, ErrKeySetFetch) && !errors.Is(err, ErrKeySetParse) {
			err = fmt.Errorf("%w: %w", ErrKeySetFetch, err)
		}
		return nil, err
	}

	header, err := parseProtectedHeader(token)
	if err != nil {
		return nil, err
	}

	verifiedPayload, err := verifySignature(token, header, set, payload)
	if err != nil {
		return nil, err
	}

	if err := CheckHeaders(header, v.checkers); err != nil {
		return nil, err
	}

	return &VerifiedToken{Header: header, Payload: verifiedPayload}, nil
}

func parseProtectedHeader(token string) (map[string]any, error) {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(segments))
	}
	if segments[0] == "" || segments[2] == "" {
		return nil, fmt.Errorf("%w: empty header or signature segment", ErrMalformedToken)
	}

	raw, err := decodeSegment(segments[0])
	if err != nil {
		return nil, fmt.Errorf("%w: decoding header: %w", ErrMalformedToken, err)
	}

	var header map[string]any
	if err := go_json.Unmarshal(raw, &header); err != nil {
		return nil, fmt.Errorf("%w: decoding header: %w", ErrMalformedToken, err)
	}
	if header == nil {
		return nil, fmt.Errorf("%w: header is not a JSON object", ErrMalformedToken)
	}
	return header, nil
}

func verifySignature(token string, header map[string]any, set jwk.Set, payload []byte) ([]byte, error) {
	if alg, _ := header[HeaderAlgorithm].(string); alg != AlgorithmES256 {
		return nil, fmt.Errorf("%w: unsupported algorithm %q", ErrSignatureInvalid, header[HeaderAlgorithm])
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("%w: key set is empty", ErrSignatureInvalid)
	}

	opts := []jws.VerifyOption{jws.WithKeyProvider(allKeys(set))}
	if payload != nil {
		opts = append(opts, jws.WithDetachedPayload(payload))
	}

	verified, err := jws.Verify([]byte(token), opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
	}
	return verified, nil
}

// allKeys offers every key in set as an ES256 candidate, regardless of kid.
func allKeys(set jwk.Set) jws.KeyProvider {
	return jws.KeyProviderFunc(func(_ context.Context, sink jws.KeySink, _ *jws.Signature, _ *jws.Message) error {
		for i := 0; i < set.Len(); i++ {
			key, ok := set.Key(i)
			if !ok {
				continue
			}
			sink.Key(jwa.ES256, key)
		}
		return nil
	})
}
