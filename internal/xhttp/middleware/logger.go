package middleware

import (
	"log/slog"
	"net/http"

	"github.com/garrettladley/payconiq/internal/xcontext"
	"github.com/garrettladley/payconiq/internal/xslog"
)

// Logger puts base, tagged with the request id, into the request context so
// handlers and services can use xslog.FromContext. Run it after RequestID.
func Logger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base
			if id, ok := xcontext.RequestID(r.Context()); ok {
				logger = logger.With(xslog.RequestID(id))
			}
			next.ServeHTTP(w, r.WithContext(xslog.WithLogger(r.Context(), logger)))
		})
	}
}
