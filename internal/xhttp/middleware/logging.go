package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/garrettladley/payconiq/internal/xslog"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// Logging writes one access log line per request. Server errors log at error,
// client errors at warn and everything else at info.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		switch {
		case rec.status >= http.StatusInternalServerError:
			level = slog.LevelError
		case rec.status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		ctx := r.Context()
		xslog.FromContext(ctx).Log(ctx, level, "http request",
			xslog.RequestGroup(r),
			xslog.ResponseGroup(rec.status, time.Since(start)),
			slog.Int("bytes", rec.bytes),
		)
	})
}
