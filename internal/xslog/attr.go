package xslog

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/garrettladley/payconiq/internal/version"
	"github.com/garrettladley/payconiq/internal/xhttp"
)

const (
	keyError = "error"
)

func Error(err error) slog.Attr {
	return slog.String(keyError, err.Error())
}

func RequestID(requestID string) slog.Attr {
	const requestIDKey = "request_id"
	return slog.String(requestIDKey, requestID)
}

func Stack() slog.Attr {
	const stackKey = "stack"
	return slog.String(stackKey, string(debug.Stack()))
}

func HTTPStatus(status int) slog.Attr {
	const statusKey = "status"
	return slog.Int(statusKey, status)
}

func Duration(duration time.Duration) slog.Attr {
	const durationKey = "duration"
	return slog.Duration(durationKey, duration)
}

func RequestMethod(r *http.Request) slog.Attr {
	const methodKey = "method"
	return slog.String(methodKey, r.Method)
}

func RequestPath(r *http.Request) slog.Attr {
	const pathKey = "path"
	return slog.String(pathKey, r.URL.Path)
}

func IP(ip string) slog.Attr {
	const ipKey = "ip"
	return slog.String(ipKey, ip)
}

func RequestIP(r *http.Request) slog.Attr {
	return IP(xhttp.ClientIP(r))
}

func Version() slog.Attr {
	const versionKey = "version"
	return slog.String(versionKey, version.Get())
}

func URL(u string) slog.Attr {
	const urlKey = "url"
	return slog.String(urlKey, u)
}

func CacheKey(key string) slog.Attr {
	const cacheKeyKey = "cache_key"
	return slog.String(cacheKeyKey, key)
}

func CacheDriver(driver string) slog.Attr {
	const cacheDriverKey = "cache_driver"
	return slog.String(cacheDriverKey, driver)
}

func KeyCount(n int) slog.Attr {
	const keyCountKey = "key_count"
	return slog.Int(keyCountKey, n)
}

func KeyID(kid string) slog.Attr {
	const keyIDKey = "kid"
	return slog.String(keyIDKey, kid)
}

func PaymentID(id string) slog.Attr {
	const paymentIDKey = "payment_id"
	return slog.String(paymentIDKey, id)
}

func PaymentStatus(status string) slog.Attr {
	const paymentStatusKey = "payment_status"
	return slog.String(paymentStatusKey, status)
}

func Amount(cents int64) slog.Attr {
	const amountKey = "amount"
	return slog.Int64(amountKey, cents)
}

func JTI(jti string) slog.Attr {
	const jtiKey = "jti"
	return slog.String(jtiKey, jti)
}

func Production(production bool) slog.Attr {
	const productionKey = "production"
	return slog.Bool(productionKey, production)
}
