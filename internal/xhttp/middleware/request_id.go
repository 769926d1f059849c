package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/garrettladley/payconiq/internal/xcontext"
	"github.com/garrettladley/payconiq/internal/xhttp"
)

type RequestIDMiddleware struct {
	IDFunc func(*http.Request) string
}

func newUUID(*http.Request) string {
	return uuid.New().String()
}

type RequestIDOption func(*RequestIDMiddleware)

// WithIDFunc overrides how request IDs are generated.
func WithIDFunc(fn func(*http.Request) string) RequestIDOption {
	return func(m *RequestIDMiddleware) { m.IDFunc = fn }
}

func RequestID(opts ...RequestIDOption) func(http.Handler) http.Handler {
	middleware := &RequestIDMiddleware{IDFunc: newUUID}

	for _, opt := range opts {
		opt(middleware)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := middleware.IDFunc(r)
			ctx := xcontext.WithRequestID(r.Context(), id)
			xhttp.SetHeaderRequestID(w, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
