package server

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"

	"github.com/garrettladley/payconiq/internal/callback"
	"github.com/garrettladley/payconiq/internal/server/handler"
	"github.com/garrettladley/payconiq/internal/service/webhook"
	"github.com/garrettladley/payconiq/internal/storage"
)

const (
	profileID    = "5fxxxxxxxxxxxxxxxx98"
	callbackBody = `{"paymentId":"5bdb1685b93d1c000bde96f2","transferAmount":1,"tippingAmount":0,"amount":1,"totalAmount":1,"currency":"EUR","status":"SUCCEEDED"}`
)

var now = time.Date(2026, time.October, 17, 10, 30, 0, 0, time.UTC)

type fixture struct {
	server *httptest.Server
	priv   *ecdsa.PrivateKey
	keys   *httptest.Server
	seen   []*webhook.Callback
}

func newFixture(t *testing.T, keyStatus int) *fixture {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	pub, err := jwk.FromRaw(&priv.PublicKey)
	if err != nil {
		t.Fatalf("building jwk: %v", err)
	}
	set := jwk.NewSet()
	_ = set.AddKey(pub)
	setJSON, err := go_json.Marshal(set)
	if err != nil {
		t.Fatalf("marshaling key set: %v", err)
	}

	f := &fixture{priv: priv}
	f.keys = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(keyStatus)
		_, _ = w.Write(setJSON)
	}))
	t.Cleanup(f.keys.Close)

	cache := storage.NewMemoryCache(0)
	verifier := callback.NewVerifier(profileID, f.keys.URL,
		callback.WithCache(cache),
		callback.WithHTTPClient(f.keys.Client()),
		callback.WithClock(func() time.Time { return now }),
	)
	processor := webhook.NewProcessor(verifier, cache, webhook.SinkFunc(func(_ context.Context, cb *webhook.Callback) error {
		f.seen = append(f.seen, cb)
		return nil
	}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.server = httptest.NewServer(NewHandler(logger, Handlers{
		Webhook: handler.NewWebhook(processor),
		Health:  handler.NewHealth(cache),
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) sign(t *testing.T, jti string, body string) string {
	t.Helper()
	hdrs := jws.NewHeaders()
	for k, v := range map[string]any{
		callback.HeaderSubject:  profileID,
		callback.HeaderIssuer:   callback.IssuerPayconiq,
		callback.HeaderIssuedAt: "2026-10-17T10:29:59.123456789Z",
		callback.HeaderJTI:      jti,
		callback.HeaderPath:     "https://merchant.example.com/callbacks/payconiq",
	} {
		if err := hdrs.Set(k, v); err != nil {
			t.Fatalf("setting header: %v", err)
		}
	}
	token, err := jws.Sign(nil,
		jws.WithKey(jwa.ES256, f.priv, jws.WithProtectedHeaders(hdrs)),
		jws.WithDetachedPayload([]byte(body)),
	)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}
	return string(token)
}

func (f *fixture) post(t *testing.T, signature string, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, f.server.URL+"/callbacks/payconiq", strings.NewReader(body))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if signature != "" {
		req.Header.Set(handler.HeaderSignature, signature)
	}
	resp, err := f.server.Client().Do(req)
	if err != nil {
		t.Fatalf("posting callback: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestCallbackRoute(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)

	tests := []struct {
		name       string
		signature  func() string
		body       string
		wantStatus int
	}{
		{
			name:       "valid",
			signature:  func() string { return f.sign(t, "jti-valid", callbackBody) },
			body:       callbackBody,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing signature",
			signature:  func() string { return "" },
			body:       callbackBody,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "tampered body",
			signature:  func() string { return f.sign(t, "jti-tampered", callbackBody) },
			body:       strings.Replace(callbackBody, `"amount":1`, `"amount":100`, 1),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "signed garbage",
			signature:  func() string { return f.sign(t, "jti-garbage", "not json") },
			body:       "not json",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.post(t, tt.signature(), tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if resp.Header.Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID header")
			}
			if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
				t.Error("missing security headers")
			}
		})
	}

	if len(f.seen) != 1 || f.seen[0].Payment.PaymentID != "5bdb1685b93d1c000bde96f2" {
		t.Errorf("sink saw %d callbacks, want 1", len(f.seen))
	}
}

func TestCallbackRoute_Replay(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)
	sig := f.sign(t, "jti-once", callbackBody)

	for range 2 {
		if resp := f.post(t, sig, callbackBody); resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
	}
	if len(f.seen) != 1 {
		t.Errorf("sink calls = %d, want 1", len(f.seen))
	}
}

func TestCallbackRoute_KeysUnavailable(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusBadGateway)
	resp := f.post(t, f.sign(t, "jti", callbackBody), callbackBody)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}

	var errResp struct {
		Message string `json:"message"`
	}
	if err := go_json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if errResp.Message != "signing keys unavailable" {
		t.Errorf("message = %q", errResp.Message)
	}
}

type brokenCache struct{}

func (brokenCache) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthRoute(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)
	resp, err := f.server.Client().Get(f.server.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	rec := httptest.NewRecorder()
	handler.NewHealth(brokenCache{}).HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("broken cache status = %d, want 503", rec.Code)
	}

	resp, err = f.server.Client().Get(f.server.URL + "/callbacks/payconiq")
	if err != nil {
		t.Fatalf("GET callback: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET callback status = %d, want 405", resp.StatusCode)
	}
}
