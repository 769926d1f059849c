package xerrors

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/garrettladley/payconiq/internal/xhttp"
	"github.com/garrettladley/payconiq/internal/xslog"
)

type errorResponse struct {
	Message string `json:"message"`
}

func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := As(err)
	if appErr == nil {
		appErr = Internal(WithCause(err))
	}

	logError(ctx, appErr)

	if err := xhttp.WriteJSON(w, appErr.StatusCode, errorResponse{Message: appErr.Message}); err != nil {
		xslog.FromContext(ctx).WarnContext(ctx, "failed to write error response", xslog.Error(err))
	}
}

func logError(ctx context.Context, err *Error) {
	logger := xslog.FromContext(ctx)
	attrs := []any{
		xslog.HTTPStatus(err.StatusCode),
		slog.String("message", err.Message),
	}
	if err.Cause != nil {
		attrs = append(attrs, xslog.Error(err.Cause))
	}

	switch err.StatusCode / 100 {
	case 5:
		logger.ErrorContext(ctx, "server error", attrs...)
	case 4:
		logger.WarnContext(ctx, "client error", attrs...)
	default:
		logger.InfoContext(ctx, "error response", attrs...)
	}
}
