package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/clickcollect/pkg/httpx"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

var errDown = errors.New("connection refused")

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		checks     []httpx.Check
		wantCode   int
		wantStatus map[string]string
	}{
		{
			name: "all healthy",
			checks: []httpx.Check{
				{Name: "database", Pinger: stubPinger{}},
				{Name: "redis", Pinger: stubPinger{}},
				{Name: "event_bus", Pinger: stubPinger{}},
			},
			wantCode:   http.StatusOK,
			wantStatus: map[string]string{"status": "ok", "database": "ok", "redis": "ok", "event_bus": "ok"},
		},
		{
			name: "database down",
			checks: []httpx.Check{
				{Name: "database", Pinger: stubPinger{err: errDown}},
				{Name: "event_bus", Pinger: stubPinger{}},
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: map[string]string{"status": "degraded", "database": "unreachable", "event_bus": "ok"},
		},
		{
			name: "redis not configured",
			checks: []httpx.Check{
				{Name: "database", Pinger: stubPinger{}},
				{Name: "redis"},
			},
			wantCode:   http.StatusOK,
			wantStatus: map[string]string{"status": "ok", "database": "ok", "redis": "disabled"},
		},
		{
			name: "optional check down",
			checks: []httpx.Check{
				{Name: "database", Pinger: stubPinger{}},
				{Name: "redis", Pinger: stubPinger{err: errDown}, Optional: true},
			},
			wantCode:   http.StatusOK,
			wantStatus: map[string]string{"status": "ok", "database": "ok", "redis": "unreachable"},
		},
		{
			name: "everything down",
			checks: []httpx.Check{
				{Name: "database", Pinger: stubPinger{err: errDown}},
				{Name: "redis", Pinger: stubPinger{err: errDown}},
				{Name: "event_bus", Pinger: stubPinger{err: errDown}},
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: map[string]string{"status": "degraded", "database": "unreachable", "redis": "unreachable", "event_bus": "unreachable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			httpx.HealthHandler(tt.checks...).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

			if rr.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rr.Code, tt.wantCode)
			}
			var got map[string]string
			if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			for k, want := range tt.wantStatus {
				if got[k] != want {
					t.Errorf("%s = %q, want %q", k, got[k], want)
				}
			}
		})
	}
}
