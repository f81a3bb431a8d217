package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the uniform JSON error payload. All authorization failures
// share one body so callers cannot probe which accounts or credentials exist.
type ErrorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the uniform error payload.
func WriteError(w http.ResponseWriter, code int, name, desc string) {
	WriteJSON(w, code, ErrorBody{Error: name, Description: desc})
}

// NoCache marks a response as uncacheable. Required for token responses.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// BearerToken extracts the bearer credential from an Authorization header,
// or "" when absent.
func BearerToken(r *http.Request) string {
	const prefix = "Bearer "
	authz := r.Header.Get("Authorization")
	if len(authz) > len(prefix) && authz[:len(prefix)] == prefix {
		return authz[len(prefix):]
	}
	return ""
}
