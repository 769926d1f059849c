package webhook

import (
	"context"
	"errors"

	"github.com/garrettladley/payconiq/internal/callback"
	"github.com/garrettladley/payconiq/internal/client/payconiq"
)

var (
	ErrMissingSignature = errors.New("missing signature header")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrKeysUnavailable  = errors.New("signing keys unavailable")
	ErrInvalidPayload   = errors.New("invalid callback payload")
	ErrDuplicate        = errors.New("callback already processed")
)

type ProcessRequest struct {
	Body      []byte
	Signature string
}

// Callback is a verified payment status update.
type Callback struct {
	Payment *payconiq.Payment
	Token   *callback.VerifiedToken
}

type Service interface {
	// ProcessCallback verifies the detached signature over the body, decodes
	// the payment and hands it to the configured Sink.
	// Returns ErrMissingSignature if the signature is empty.
	// Returns ErrInvalidSignature if verification fails.
	// Returns ErrKeysUnavailable if the signing keys could not be loaded.
	// Returns ErrInvalidPayload if the body is not a payment.
	// Returns ErrDuplicate if the same jti was already processed (caller may treat as success).
	ProcessCallback(ctx context.Context, req ProcessRequest) (*Callback, error)
}

// Verifier is the subset of *callback.Verifier the processor needs.
type Verifier interface {
	Verify(ctx context.Context, token string, payload []byte) (*callback.VerifiedToken, error)
}

var _ Verifier = (*callback.Verifier)(nil)

// Sink receives every verified callback exactly once per jti.
type Sink interface {
	HandleCallback(ctx context.Context, cb *Callback) error
}

type SinkFunc func(ctx context.Context, cb *Callback) error

func (f SinkFunc) HandleCallback(ctx context.Context, cb *Callback) error { return f(ctx, cb) }
