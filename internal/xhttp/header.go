package xhttp

import (
	"net/http"
)

const (
	XForwardedFor    = "X-Forwarded-For"
	XContentTypeOpts = "X-Content-Type-Options"
	XFrameOpts       = "X-Frame-Options"
	ReferrerPolicy   = "Referrer-Policy"
	CSP              = "Content-Security-Policy"
	CacheControl     = "Cache-Control"
)

const (
	ContentType   = "Content-Type"
	Authorization = "Authorization"
	Accept        = "Accept"
)

const applicationJSON = "application/json"

func SetHeaderRequestID(w http.ResponseWriter, requestID string) {
	const headerName = "X-Request-ID"
	w.Header().Set(headerName, requestID)
}

func SetHeaderContentTypeApplicationJSON(w http.ResponseWriter) {
	w.Header().Set(ContentType, applicationJSON)
}

func SetRequestHeaderAcceptJSON(req *http.Request) {
	req.Header.Set(Accept, applicationJSON)
}

func SetRequestHeaderContentTypeJSON(req *http.Request) {
	req.Header.Set(ContentType, applicationJSON)
}
