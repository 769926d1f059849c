package callback

import "time"

// VerifiedToken is a callback signature whose signature and protected header
// have both been verified.
type VerifiedToken struct {
	Header  map[string]any
	Payload []byte
}

func (t *VerifiedToken) stringHeader(name string) string {
	s, _ := t.Header[name].(string)
	return s
}

func (t *VerifiedToken) Algorithm() string { return t.stringHeader(HeaderAlgorithm) }
func (t *VerifiedToken) KeyID() string     { return t.stringHeader(HeaderKeyID) }
func (t *VerifiedToken) Issuer() string    { return t.stringHeader(HeaderIssuer) }
func (t *VerifiedToken) Subject() string   { return t.stringHeader(HeaderSubject) }
func (t *VerifiedToken) JTI() string       { return t.stringHeader(HeaderJTI) }
func (t *VerifiedToken) Path() string      { return t.stringHeader(HeaderPath) }

// IssuedAt returns the parsed iat header. The value was validated during
// verification, so the error is only non-nil for tokens built by hand.
func (t *VerifiedToken) IssuedAt() (time.Time, error) {
	return ParseIssuedAt(t.stringHeader(HeaderIssuedAt))
}
