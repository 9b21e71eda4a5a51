package httpx_test

import (
	"crypto/tls"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ghuser/clickcollect/pkg/config"
	"github.com/ghuser/clickcollect/pkg/httpx"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestSecurityHeaders(t *testing.T) {
	h := httpx.SecurityHeaders(false)(http.HandlerFunc(okHandler))

	r := httptest.NewRequest(http.MethodGet, "https://shop.example/api/products", http.NoBody)
	r.TLS = &tls.ConnectionState{}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)

	checks := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'self'",
	}
	for header, want := range checks {
		if got := rr.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if rr.Header().Get("Strict-Transport-Security") == "" {
		t.Error("expected HSTS on a TLS request")
	}
}

func TestRequestBodyLimit(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		wantCode int
	}{
		{"within limit", 50, http.StatusOK},
		{"over limit", 101, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := httpx.RequestBodyLimit(100)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var v any
				if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
					w.WriteHeader(http.StatusRequestEntityTooLarge)
					return
				}
				w.WriteHeader(http.StatusOK)
			}))
			body := `"` + strings.Repeat("a", tt.size-2) + `"`
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/shopping-lists", strings.NewReader(body)))

			if rr.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rr.Code, tt.wantCode)
			}
		})
	}
}

func TestCORSMiddleware_AllowsPatchPreflight(t *testing.T) {
	h := httpx.CORSMiddleware("http://localhost:3000, https://shop.example")(http.HandlerFunc(okHandler))

	r := httptest.NewRequest(http.MethodOptions, "/api/shopping-lists/1", http.NoBody)
	r.Header.Set("Origin", "http://localhost:3000")
	r.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPatch) {
		t.Fatalf("Access-Control-Allow-Methods = %q", got)
	}
	if rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("explicit origins must allow the identity cookie")
	}
}

func TestRateLimit(t *testing.T) {
	h := httpx.RateLimit(2)(http.HandlerFunc(okHandler))

	var last *httptest.ResponseRecorder
	for range 3 {
		last = httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/products", http.NoBody)
		r.RemoteAddr = "10.0.0.7:5123"
		h.ServeHTTP(last, r)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("code = %d, want 429", last.Code)
	}
	var body httpx.ErrorBody
	if err := json.NewDecoder(last.Body).Decode(&body); err != nil || body.Error == "" {
		t.Fatalf("expected JSON error body, got %q (%v)", last.Body.String(), err)
	}
}

func TestNewRouter_RunsOuterMiddlewareWithRequestID(t *testing.T) {
	var sawRequestID bool
	outer := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawRequestID = middleware.GetReqID(r.Context()) != ""
			next.ServeHTTP(w, r)
		})
	}

	r := httpx.NewRouter(httpx.OptionsFromConfig(&config.Config{
		Environment:        config.EnvDevelopment,
		CORSAllowedOrigins: "*",
	}), outer)
	r.Get("/api/products", okHandler)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("code = %d", rr.Code)
	}
	if !sawRequestID {
		t.Error("outer middleware must see the request id")
	}
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("expected security headers")
	}
}
