package middleware

import (
	"fmt"
	"net/http"

	"github.com/garrettladley/payconiq/internal/xerrors"
	"github.com/garrettladley/payconiq/internal/xslog"
)

// Recovery turns a panic into a 500 JSON response. The panic value and stack
// are logged; the client only sees a generic message.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			ctx := r.Context()
			xslog.FromContext(ctx).ErrorContext(ctx, "panic recovered",
				xslog.RequestGroup(r),
				xslog.ErrorGroupWithStack(rec),
			)
			xerrors.WriteError(ctx, w, xerrors.Internal(xerrors.WithCause(fmt.Errorf("panic: %v", rec))))
		}()
		next.ServeHTTP(w, r)
	})
}
