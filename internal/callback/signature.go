package callback

import (
	"encoding/base64"
	"math/big"
	"strings"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Byte length of one ECDSA signature component (r or s) per JWS algorithm.
const (
	ES256PartLen = 32
	ES384PartLen = 48
	ES512PartLen = 66
)

// NormalizeSignature rewrites an ASN.1 DER encoded ECDSA signature in a compact
// JWS into the fixed-length r||s form required by RFC 7518. Tokens that are
// already canonical, or that cannot be decoded, are returned unchanged.
func NormalizeSignature(token string, partLen int) string {
	segments := strings.SplitN(token, ".", 3)
	if len(segments) < 3 || segments[2] == "" {
		return token
	}

	sig, err := decodeSegment(segments[2])
	if err != nil {
		return token
	}

	if len(sig) == 2*partLen {
		return token
	}

	raw, ok := derToRaw(sig, partLen)
	if !ok {
		return token
	}

	segments[2] = base64.RawURLEncoding.EncodeToString(raw)
	return strings.Join(segments, ".")
}

func decodeSegment(seg string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(seg, "="))
}

func derToRaw(der []byte, partLen int) ([]byte, bool) {
	var (
		r, s  = new(big.Int), new(big.Int)
		inner cryptobyte.String
	)

	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) ||
		!inner.Empty() {
		return nil, false
	}
	if r.Sign() < 0 || s.Sign() < 0 {
		return nil, false
	}

	raw := make([]byte, 0, 2*partLen)
	raw = append(raw, fixedWidth(r, partLen)...)
	raw = append(raw, fixedWidth(s, partLen)...)
	return raw, true
}

// fixedWidth left-pads n to size bytes, keeping the low-order bytes when n is wider.
func fixedWidth(n *big.Int, size int) []byte {
	b := n.Bytes()
	if len(b) > size {
		b = b[len(b)-size:]
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}
