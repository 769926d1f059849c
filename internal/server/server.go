// Package server wires the callback receiver's routes and HTTP server.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/garrettladley/payconiq/internal/server/handler"
	"github.com/garrettladley/payconiq/internal/xhttp/middleware"
)

const (
	RouteCallback = "POST /callbacks/payconiq"
	RouteHealth   = "GET /health"
)

type Handlers struct {
	Webhook *handler.Webhook
	Health  *handler.Health
}

// NewHandler returns the routed handler wrapped in the standard middleware chain.
func NewHandler(logger *slog.Logger, h Handlers) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(RouteCallback, h.Webhook.HandleCallback)
	mux.HandleFunc(RouteHealth, h.Health.HandleHealth)

	return middleware.Chain(mux,
		middleware.Recovery,
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Logging,
		middleware.SecurityHeaders,
	)
}

func New(port string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
