package payconiq

import (
	"fmt"
	"io"
	"net/http"

	go_json "github.com/goccy/go-json"
)

// APIError is a 4xx/5xx response from the merchant API.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
	TraceID    string
	SpanID     string
	// Production suppresses trace identifiers in Error.
	Production bool
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("payconiq api: %d %s", e.StatusCode, e.Message)
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if !e.Production && (e.TraceID != "" || e.SpanID != "") {
		msg += fmt.Sprintf(" [traceId=%s spanId=%s]", e.TraceID, e.SpanID)
	}
	return msg
}

func parseAPIError(resp *http.Response, production bool) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    resp.Status,
		Production: production,
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var errResp struct {
		Message string `json:"message"`
		Code    string `json:"code"`
		TraceID string `json:"traceId"`
		SpanID  string `json:"spanId"`
	}
	if err := go_json.Unmarshal(body, &errResp); err != nil {
		apiErr.Message = string(body)
		return apiErr
	}

	if errResp.Message != "" {
		apiErr.Message = errResp.Message
	}
	apiErr.Code = errResp.Code
	apiErr.TraceID = errResp.TraceID
	apiErr.SpanID = errResp.SpanID
	return apiErr
}
