package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/payconiq/internal/callback"
	"github.com/garrettladley/payconiq/internal/client/payconiq"
	"github.com/garrettladley/payconiq/internal/storage"
	"github.com/garrettladley/payconiq/internal/xslog"
)

// ReplayWindow is how long a processed jti is remembered.
const ReplayWindow = 24 * time.Hour

const replayKeyPrefix = "payconiq_callback_jti_"

type Processor struct {
	verifier Verifier
	seen     storage.Cache
	sink     Sink
}

var _ Service = (*Processor)(nil)

// NewProcessor returns a processor that remembers processed jti values in
// seen. A nil sink logs each payment.
func NewProcessor(verifier Verifier, seen storage.Cache, sink Sink) *Processor {
	if sink == nil {
		sink = SinkFunc(LogPayment)
	}
	return &Processor{
		verifier: verifier,
		seen:     seen,
		sink:     sink,
	}
}

func (p *Processor) ProcessCallback(ctx context.Context, req ProcessRequest) (*Callback, error) {
	if req.Signature == "" {
		return nil, ErrMissingSignature
	}

	token, err := p.verifier.Verify(ctx, req.Signature, req.Body)
	if err != nil {
		if errors.Is(err, callback.ErrKeySetFetch) || errors.Is(err, callback.ErrKeySetParse) {
			return nil, fmt.Errorf("%w: %w", ErrKeysUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	var payment payconiq.Payment
	if err := go_json.Unmarshal(req.Body, &payment); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if payment.PaymentID == "" {
		return nil, fmt.Errorf("%w: missing paymentId", ErrInvalidPayload)
	}

	cb := &Callback{Payment: &payment, Token: token}

	key := replayKeyPrefix + token.JTI()
	logger := xslog.FromContext(ctx)

	reserved, err := p.seen.Add(ctx, key, []byte(payment.PaymentID), ReplayWindow)
	switch {
	case err != nil:
		logger.WarnContext(ctx, "failed to record callback jti",
			xslog.JTI(token.JTI()),
			xslog.Error(err),
		)
	case !reserved:
		return cb, ErrDuplicate
	}

	if err := p.sink.HandleCallback(ctx, cb); err != nil {
		// Release the jti so Payconiq's retry is processed.
		if reserved {
			if derr := p.seen.Delete(context.WithoutCancel(ctx), key); derr != nil {
				logger.WarnContext(ctx, "failed to release callback jti",
					xslog.JTI(token.JTI()),
					xslog.Error(derr),
				)
			}
		}
		return nil, fmt.Errorf("handling callback: %w", err)
	}

	return cb, nil
}

// LogPayment is the default Sink.
func LogPayment(ctx context.Context, cb *Callback) error {
	xslog.FromContext(ctx).InfoContext(ctx, "payment callback",
		xslog.PaymentID(cb.Payment.PaymentID),
		xslog.PaymentStatus(string(cb.Payment.Status)),
		xslog.Amount(cb.Payment.Amount),
		xslog.SignatureGroup(cb.Token.KeyID(), cb.Token.JTI()),
	)
	return nil
}
