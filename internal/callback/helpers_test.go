package callback

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
)

const (
	testProfileID = "5fxxxxxxxxxxxxxxxx98"
	testKeyID     = "es256-test-key"
)

var testNow = time.Date(2026, time.October, 17, 10, 30, 0, 0, time.UTC)

func newTestKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	return priv
}

func keySetJSON(t *testing.T, keys ...*ecdsa.PrivateKey) []byte {
	t.Helper()
	set := jwk.NewSet()
	for _, priv := range keys {
		key, err := jwk.FromRaw(&priv.PublicKey)
		if err != nil {
			t.Fatalf("building jwk: %v", err)
		}
		if err := key.Set(jwk.KeyIDKey, testKeyID); err != nil {
			t.Fatalf("setting kid: %v", err)
		}
		if err := set.AddKey(key); err != nil {
			t.Fatalf("adding key: %v", err)
		}
	}
	body, err := go_json.Marshal(set)
	if err != nil {
		t.Fatalf("marshaling key set: %v", err)
	}
	return body
}

// callbackHeaders returns a protected header that passes every default checker
// at testNow.
func callbackHeaders() map[string]any {
	return map[string]any{
		jws.KeyIDKey:   testKeyID,
		HeaderSubject:  testProfileID,
		HeaderIssuer:   IssuerPayconiq,
		HeaderIssuedAt: "2026-10-17T10:29:58.123456789Z",
		HeaderJTI:      "7a3c1e40-5b9f-4f5e-9c0e-0d6c2b6f1a11",
		HeaderPath:     "https://merchant.example.com/callbacks/payconiq",
	}
}

// signDetached signs body with priv and returns a compact JWS whose payload
// segment is empty.
func signDetached(t *testing.T, priv any, alg jwa.SignatureAlgorithm, headers map[string]any, body []byte) string {
	t.Helper()
	hdrs := jws.NewHeaders()
	for k, v := range headers {
		if err := hdrs.Set(k, v); err != nil {
			t.Fatalf("setting header %q: %v", k, err)
		}
	}
	token, err := jws.Sign(nil,
		jws.WithKey(alg, priv, jws.WithProtectedHeaders(hdrs)),
		jws.WithDetachedPayload(body),
	)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}
	return string(token)
}

// keyServer serves body as a JWK Set and counts requests.
func keyServer(t *testing.T, status int, body []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func keyServerFunc(t *testing.T, fn http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(fn)
	t.Cleanup(srv.Close)
	return srv
}
