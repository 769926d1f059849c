package xhttp

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the originating client address. The first hop of
// X-Forwarded-For wins when present; ports and IPv6 brackets are stripped.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get(XForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return stripPort(strings.TrimSpace(first))
	}
	return stripPort(r.RemoteAddr)
}

func stripPort(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.Trim(addr, "[]")
}
