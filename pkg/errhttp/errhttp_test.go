package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/clickcollect/pkg/database"
	shoppingdomain "github.com/ghuser/clickcollect/services/shopping/domain"
)

var req = httptest.NewRequest(http.MethodPatch, "/api/shopping-lists/l1", http.NoBody)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ErrInvalidInput", shoppingdomain.ErrInvalidInput, http.StatusUnprocessableEntity},
		{"ErrListNotFound", shoppingdomain.ErrListNotFound, http.StatusNotFound},
		{"ErrItemNotFound", shoppingdomain.ErrItemNotFound, http.StatusNotFound},
		{"ErrPreconditionFailed", shoppingdomain.ErrPreconditionFailed, http.StatusPreconditionFailed},
		{"ErrInvalidState", shoppingdomain.ErrInvalidState, http.StatusConflict},
		{"ErrConflict", shoppingdomain.ErrConflict, http.StatusConflict},
		{"ErrUnavailable", shoppingdomain.ErrUnavailable, http.StatusServiceUnavailable},
		{"database auth failure", fmt.Errorf("ping: %w", database.ErrAuthFailed), http.StatusServiceUnavailable},
		{"wrapped ErrListNotFound", fmt.Errorf("get list: %w", shoppingdomain.ErrListNotFound), http.StatusNotFound},
		{"double wrapped ErrInvalidInput", fmt.Errorf("%w: quantity must be positive", shoppingdomain.ErrInvalidInput), http.StatusUnprocessableEntity},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
		{"generic wrapped error", fmt.Errorf("context: %w", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, req, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestWriteError_ConflictRetryAfter(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, req, fmt.Errorf("%w: %w", shoppingdomain.ErrConflict, database.ErrSerialization))

	if got := w.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("expected Retry-After: 1, got %q", got)
	}

	w = httptest.NewRecorder()
	WriteError(w, req, shoppingdomain.ErrInvalidState)
	if got := w.Header().Get("Retry-After"); got != "" {
		t.Fatalf("invalid state is not retryable, got Retry-After %q", got)
	}
}

func TestWriteError_ResponseBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, req, fmt.Errorf("%w: list l1 has 2 pending item(s)", shoppingdomain.ErrPreconditionFailed))

	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("unexpected Content-Type: %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body["error"] != "precondition failed: list l1 has 2 pending item(s)" {
		t.Fatalf("unexpected error message: %q", body["error"])
	}
}

func TestWriteError_ProductionHidesInternalErrors(t *testing.T) {
	Configure(true)
	defer Configure(false)

	w := httptest.NewRecorder()
	WriteError(w, req, errors.New("pq: password authentication failed for user clickcollect"))

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("internal details leaked: %q", body["error"])
	}

	w = httptest.NewRecorder()
	WriteError(w, req, shoppingdomain.ErrInvalidInput)
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "invalid input" {
		t.Fatalf("client errors keep their message, got %q", body["error"])
	}
}
