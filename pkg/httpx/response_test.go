package httpx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/clickcollect/pkg/httpx"
)

func TestJSON_setsHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("unexpected Content-Type: %q", ct)
	}
	if xct := w.Header().Get("X-Content-Type-Options"); xct != "nosniff" {
		t.Errorf("expected nosniff, got %q", xct)
	}
}

func TestJSON_encodesBody(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.JSON(w, http.StatusCreated, map[string]string{"id": "list-1"})

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body["id"] != "list-1" {
		t.Errorf("unexpected body: %v", body)
	}
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.JSONError(w, http.StatusBadRequest, "something went wrong")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	var body httpx.ErrorBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body.Error != "something went wrong" {
		t.Errorf("unexpected error message: %q", body.Error)
	}
}

func TestSafeError(t *testing.T) {
	err := errors.New("pq: relation shopping_lists does not exist")
	tests := []struct {
		name       string
		status     int
		production bool
		want       string
	}{
		{"dev keeps detail", http.StatusInternalServerError, false, err.Error()},
		{"prod hides 5xx", http.StatusInternalServerError, true, "Internal Server Error"},
		{"prod keeps 4xx", http.StatusConflict, true, err.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := httpx.SafeError(err, tt.status, tt.production); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
