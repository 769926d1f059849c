package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/garrettladley/payconiq/internal/service/webhook"
	"github.com/garrettladley/payconiq/internal/xerrors"
	"github.com/garrettladley/payconiq/internal/xslog"
)

// HeaderSignature carries the detached JWS on Payconiq callbacks.
const HeaderSignature = "Signature"

const maxCallbackBytes = 1 << 20

type Webhook struct {
	service webhook.Service
}

func NewWebhook(service webhook.Service) *Webhook {
	return &Webhook{service: service}
}

// HandleCallback handles POST /callbacks/payconiq requests.
func (h *Webhook) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := xslog.FromContext(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCallbackBytes))
	if err != nil {
		xerrors.WriteError(ctx, w, xerrors.BadRequest(xerrors.WithMessage("failed to read request body"), xerrors.WithCause(err)))
		return
	}

	req := webhook.ProcessRequest{
		Body:      body,
		Signature: r.Header.Get(HeaderSignature),
	}

	cb, err := h.service.ProcessCallback(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, webhook.ErrDuplicate):
			// Payconiq retries until it sees a 2xx.
			if cb != nil && cb.Payment != nil {
				logger.InfoContext(ctx, "duplicate callback", xslog.PaymentID(cb.Payment.PaymentID))
			}
			w.WriteHeader(http.StatusOK)
		case errors.Is(err, webhook.ErrMissingSignature):
			xerrors.WriteError(ctx, w, xerrors.Unauthorized(xerrors.WithMessage("missing signature header")))
		case errors.Is(err, webhook.ErrKeysUnavailable):
			xerrors.WriteError(ctx, w, xerrors.ServiceUnavailable(xerrors.WithMessage("signing keys unavailable"), xerrors.WithCause(err)))
		case errors.Is(err, webhook.ErrInvalidSignature):
			xerrors.WriteError(ctx, w, xerrors.Unauthorized(xerrors.WithMessage("invalid signature"), xerrors.WithCause(err)))
		case errors.Is(err, webhook.ErrInvalidPayload):
			xerrors.WriteError(ctx, w, xerrors.BadRequest(xerrors.WithMessage("invalid payload"), xerrors.WithCause(err)))
		default:
			xerrors.WriteError(ctx, w, xerrors.Internal(xerrors.WithMessage("failed to process callback"), xerrors.WithCause(err)))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}
