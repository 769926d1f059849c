package xhttp

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/garrettladley/payconiq/internal/version"
)

type payconiqTransport struct {
	base http.RoundTripper
}

var _ http.RoundTripper = (*payconiqTransport)(nil)

func (t *payconiqTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", UserAgent())
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform round trip: %w", err)
	}
	return resp, nil
}

func UserAgent() string {
	return "payconiq-go/" + version.Get()
}

func newDialTransport(connectTimeout time.Duration) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	return t
}
