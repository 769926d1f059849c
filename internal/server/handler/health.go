package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/garrettladley/payconiq/internal/version"
	"github.com/garrettladley/payconiq/internal/xerrors"
	"github.com/garrettladley/payconiq/internal/xhttp"
	"github.com/garrettladley/payconiq/internal/xslog"
)

const healthPingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type Health struct {
	cache Pinger
}

func NewHealth(cache Pinger) *Health {
	return &Health{cache: cache}
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// HandleHealth handles GET /health requests.
func (h *Health) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			xerrors.WriteError(ctx, w, xerrors.ServiceUnavailable(xerrors.WithMessage("cache unavailable"), xerrors.WithCause(err)))
			return
		}
	}

	if err := xhttp.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: version.Get()}); err != nil {
		xslog.FromContext(ctx).WarnContext(ctx, "failed to write health response", xslog.Error(err))
	}
}
