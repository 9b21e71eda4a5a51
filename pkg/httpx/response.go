// Package httpx holds the HTTP plumbing shared by the API routes: router
// and middleware chain, JSON responses and the health endpoint.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status. Encoding failures after the header
// is written cannot be reported and are dropped.
func JSON(w http.ResponseWriter, status int, v any) {
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes {"error": message}.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}

// SafeError is the client-facing message for err. Server errors are
// reduced to their status text in production.
func SafeError(err error, status int, production bool) string {
	if production && status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
