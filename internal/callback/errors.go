package callback

import (
	"errors"
	"fmt"
)

var (
	ErrKeySetFetch      = errors.New("failed to fetch key set")
	ErrKeySetParse      = errors.New("failed to parse key set")
	ErrMalformedToken   = errors.New("malformed token")
	ErrSignatureInvalid = errors.New("invalid signature")
	ErrClaimViolation   = errors.New("claim violation")
)

// HeaderError reports a protected header that failed its checker.
type HeaderError struct {
	Header  string
	Value   any
	Message string
}

func (e *HeaderError) Error() string { return e.Message }

func (e *HeaderError) Unwrap() error { return ErrClaimViolation }

func newHeaderError(header string, value any, format string, args ...any) *HeaderError {
	return &HeaderError{
		Header:  header,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	}
}

const (
	verificationFailedMessage = "Something went wrong while loading and verifying the JWS."
)

// VerificationError is returned by Verifier.Verify for every failure.
// In production mode the message omits the underlying cause; Unwrap still
// exposes it for errors.Is and logging.
type VerificationError struct {
	Production bool
	Err        error
}

func (e *VerificationError) Error() string {
	if e.Production {
		return verificationFailedMessage
	}
	return fmt.Sprintf("%s Error: %s", verificationFailedMessage, e.Err.Error())
}

func (e *VerificationError) Unwrap() error { return e.Err }
