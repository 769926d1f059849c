package xhttp

import (
	"fmt"
	"net/http"

	go_json "github.com/goccy/go-json"
)

// WriteJSON writes v as a JSON body with the given status. Headers are sent
// before encoding, so an error here can only be logged.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	SetHeaderContentTypeApplicationJSON(w)
	w.WriteHeader(status)
	if err := go_json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return nil
}
