package callback

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"math/big"
	"strings"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

func derSignature(t *testing.T, r, s *big.Int) []byte {
	t.Helper()
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(r)
		b.AddASN1BigInt(s)
	})
	der, err := b.Bytes()
	if err != nil {
		t.Fatalf("encoding DER: %v", err)
	}
	return der
}

func withSignature(token string, sig []byte) string {
	segments := strings.Split(token, ".")
	segments[2] = base64.RawURLEncoding.EncodeToString(sig)
	return strings.Join(segments, ".")
}

func TestNormalizeSignature_DERToRaw(t *testing.T) {
	t.Parallel()

	priv := newTestKey(t)
	token := signDetached(t, priv, jwa.ES256, callbackHeaders(), []byte(`{"paymentId":"abc"}`))

	raw, err := decodeSegment(strings.Split(token, ".")[2])
	if err != nil {
		t.Fatalf("decoding signature: %v", err)
	}
	if len(raw) != 2*ES256PartLen {
		t.Fatalf("raw signature length = %d, want %d", len(raw), 2*ES256PartLen)
	}

	r := new(big.Int).SetBytes(raw[:ES256PartLen])
	s := new(big.Int).SetBytes(raw[ES256PartLen:])
	derToken := withSignature(token, derSignature(t, r, s))

	if got := NormalizeSignature(derToken, ES256PartLen); got != token {
		t.Errorf("NormalizeSignature() = %q, want %q", got, token)
	}
}

func TestNormalizeSignature_PadsShortComponents(t *testing.T) {
	t.Parallel()

	r := big.NewInt(1)
	s := new(big.Int).Lsh(big.NewInt(1), 200)
	token := "eyJhbGciOiJFUzI1NiJ9.." + base64.RawURLEncoding.EncodeToString(derSignature(t, r, s))

	got := NormalizeSignature(token, ES256PartLen)
	sig, err := decodeSegment(strings.Split(got, ".")[2])
	if err != nil {
		t.Fatalf("decoding normalized signature: %v", err)
	}
	if len(sig) != 2*ES256PartLen {
		t.Fatalf("normalized length = %d, want %d", len(sig), 2*ES256PartLen)
	}
	if new(big.Int).SetBytes(sig[:ES256PartLen]).Cmp(r) != 0 {
		t.Errorf("r component not preserved")
	}
	if new(big.Int).SetBytes(sig[ES256PartLen:]).Cmp(s) != 0 {
		t.Errorf("s component not preserved")
	}
}

func TestNormalizeSignature_StdlibASN1(t *testing.T) {
	t.Parallel()

	priv := newTestKey(t)
	digest := sha256.Sum256([]byte("signing input"))
	der, err := ecdsa.SignASN1(rand.Reader, priv, digest[:])
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	token := "aGVhZGVy.cGF5bG9hZA." + base64.RawURLEncoding.EncodeToString(der)
	got := NormalizeSignature(token, ES256PartLen)

	sig, err := decodeSegment(strings.Split(got, ".")[2])
	if err != nil {
		t.Fatalf("decoding normalized signature: %v", err)
	}
	r := new(big.Int).SetBytes(sig[:ES256PartLen])
	s := new(big.Int).SetBytes(sig[ES256PartLen:])
	if !ecdsa.Verify(&priv.PublicKey, digest[:], r, s) {
		t.Error("normalized signature does not verify")
	}
}

func TestNormalizeSignature_Unchanged(t *testing.T) {
	t.Parallel()

	raw64 := base64.RawURLEncoding.EncodeToString(make([]byte, 64))

	tests := []struct {
		name  string
		token string
	}{
		{name: "already raw", token: "aGVhZGVy.." + raw64},
		{name: "two segments", token: "aGVhZGVy.cGF5bG9hZA"},
		{name: "empty signature", token: "aGVhZGVy.cGF5bG9hZA."},
		{name: "not base64", token: "aGVhZGVy..!!!"},
		{name: "not DER", token: "aGVhZGVy.." + base64.RawURLEncoding.EncodeToString([]byte("garbage"))},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeSignature(tt.token, ES256PartLen); got != tt.token {
				t.Errorf("NormalizeSignature(%q) = %q, want unchanged", tt.token, got)
			}
		})
	}
}

func TestNormalizeSignature_RejectsNegativeIntegers(t *testing.T) {
	t.Parallel()

	token := "aGVhZGVy.." + base64.RawURLEncoding.EncodeToString(derSignature(t, big.NewInt(-5), big.NewInt(7)))
	if got := NormalizeSignature(token, ES256PartLen); got != token {
		t.Errorf("NormalizeSignature() = %q, want unchanged", got)
	}
}

func TestNormalizeSignature_AcceptsPaddedBase64(t *testing.T) {
	t.Parallel()

	der := derSignature(t, big.NewInt(3), big.NewInt(4))
	token := "aGVhZGVy.." + base64.URLEncoding.EncodeToString(der)

	got := NormalizeSignature(token, ES256PartLen)
	sig, err := decodeSegment(strings.Split(got, ".")[2])
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(sig) != 2*ES256PartLen || sig[ES256PartLen-1] != 3 || sig[2*ES256PartLen-1] != 4 {
		t.Errorf("unexpected normalized signature %x", sig)
	}
}

func TestFixedWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    *big.Int
		size int
		want []byte
	}{
		{name: "pads", n: big.NewInt(0x0102), size: 4, want: []byte{0, 0, 1, 2}},
		{name: "exact", n: big.NewInt(0x01020304), size: 4, want: []byte{1, 2, 3, 4}},
		{name: "truncates high bytes", n: big.NewInt(0x0102030405), size: 4, want: []byte{2, 3, 4, 5}},
		{name: "zero", n: big.NewInt(0), size: 2, want: []byte{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := fixedWidth(tt.n, tt.size)
			if string(got) != string(tt.want) {
				t.Errorf("fixedWidth() = %x, want %x", got, tt.want)
			}
		})
	}
}
