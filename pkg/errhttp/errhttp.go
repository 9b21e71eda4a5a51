// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/ghuser/clickcollect/pkg/database"
	"github.com/ghuser/clickcollect/pkg/httpx"
	"github.com/ghuser/clickcollect/pkg/telemetry"
	shoppingdomain "github.com/ghuser/clickcollect/services/shopping/domain"
)

// conflictRetryAfter is the Retry-After value (seconds) sent with 409 Conflict.
const conflictRetryAfter = "1"

var production atomic.Bool

// Configure sets whether 5xx messages are replaced with the status text.
// Called once at startup from the API process.
func Configure(isProduction bool) {
	production.Store(isProduction)
}

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Unrecognised errors become 500 and are reported to Sentry.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToStatus(err)
	msg := httpx.SafeError(err, status, production.Load())

	if status == http.StatusInternalServerError {
		telemetry.CaptureError(r.Context(), err, map[string]string{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}

	if isConflict(err) {
		w.Header().Set("Retry-After", conflictRetryAfter)
		msg = "the shopping list was modified concurrently; retry the request"
	}
	httpx.JSONError(w, status, msg)
}

func isConflict(err error) bool {
	return errors.Is(err, shoppingdomain.ErrConflict) || errors.Is(err, database.ErrSerialization)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, shoppingdomain.ErrInvalidInput):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, shoppingdomain.ErrNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, shoppingdomain.ErrPreconditionFailed):
		return http.StatusPreconditionFailed // 412
	case errors.Is(err, shoppingdomain.ErrInvalidState):
		return http.StatusConflict // 409
	case isConflict(err):
		return http.StatusConflict // 409
	case errors.Is(err, shoppingdomain.ErrUnavailable), errors.Is(err, database.ErrUnavailable):
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}
