package xslog

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/garrettladley/payconiq/internal/xcontext"
)

const (
	groupRequest   = "request"
	groupResponse  = "response"
	groupError     = "error"
	groupSignature = "signature"
)

const (
	keyID         = "id"
	keyHost       = "host"
	keyUserAgent  = "user_agent"
	keyProto      = "proto"
	keyQuery      = "query"
	keyStatusText = "status_text"
	keyDurationMS = "duration_ms"
	keyType       = "type"
	keyValue      = "value"
)

func RequestGroup(r *http.Request) slog.Attr {
	attrs := []slog.Attr{
		RequestMethod(r),
		RequestPath(r),
		RequestIP(r),
		slog.String(keyHost, r.Host),
		slog.String(keyUserAgent, r.UserAgent()),
		slog.String(keyProto, r.Proto),
	}
	if id, ok := xcontext.RequestID(r.Context()); ok {
		attrs = append(attrs, slog.String(keyID, id))
	}
	if r.URL.RawQuery != "" {
		attrs = append(attrs, slog.String(keyQuery, r.URL.RawQuery))
	}
	return slog.GroupAttrs(groupRequest, attrs...)
}

func ResponseGroup(status int, duration time.Duration) slog.Attr {
	return slog.Group(groupResponse,
		HTTPStatus(status),
		slog.String(keyStatusText, http.StatusText(status)),
		Duration(duration),
		slog.Int64(keyDurationMS, duration.Milliseconds()),
	)
}

// SignatureGroup describes the JWS a callback was verified with.
func SignatureGroup(kid string, jti string) slog.Attr {
	return slog.Group(groupSignature,
		KeyID(kid),
		JTI(jti),
	)
}

func ErrorGroupWithStack(err any) slog.Attr {
	return slog.Group(groupError,
		slog.Any(keyValue, err),
		slog.String(keyType, fmt.Sprintf("%T", err)),
		Stack(),
	)
}
