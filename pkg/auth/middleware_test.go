package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"

	"github.com/ghuser/clickcollect/pkg/logger"
)

// newTestStore returns a gorilla CookieStore (no Redis required) for unit tests.
// In production the RedisStore is used; the sessions.Store interface is identical.
func newTestStore() sessions.Store {
	return sessions.NewCookieStore(
		[]byte("test-auth-key-must-be-32-bytes!!"),
		[]byte("test-enc-key-must-be-32-bytes!!!"),
	)
}

// requestWithIdentity selects userID through SelectIdentity and returns a
// fresh request carrying the resulting cookie.
func requestWithIdentity(t *testing.T, store sessions.Store, userID string) *http.Request {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	if err := SelectIdentity(store, w, r, userID); err != nil {
		t.Fatalf("select identity: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/shopping-lists", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func captureUserID(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, _ = UserIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestLoadIdentity(t *testing.T) {
	store := newTestStore()

	tests := []struct {
		name string
		req  func(t *testing.T) *http.Request
		want string
	}{
		{
			name: "selected user",
			req:  func(t *testing.T) *http.Request { return requestWithIdentity(t, store, "1") },
			want: "1",
		},
		{
			name: "no cookie passes through",
			req: func(*testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/products", nil)
			},
			want: "",
		},
		{
			name: "tampered cookie passes through",
			req: func(*testing.T) *http.Request {
				r := httptest.NewRequest(http.MethodGet, "/api/products", nil)
				r.AddCookie(&http.Cookie{Name: SessionName, Value: "garbage"})
				return r
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			w := httptest.NewRecorder()
			LoadIdentity(store, logger.Discard())(captureUserID(&got)).ServeHTTP(w, tt.req(t))

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			if got != tt.want {
				t.Fatalf("user id: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadIdentity_NilStore(t *testing.T) {
	var got string
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	LoadIdentity(nil, logger.Discard())(captureUserID(&got)).ServeHTTP(w, r)

	if w.Code != http.StatusOK || got != "" {
		t.Fatalf("expected pass-through, got code=%d id=%q", w.Code, got)
	}
}

func TestClearIdentity_ExpiresCookie(t *testing.T) {
	store := newTestStore()
	r := requestWithIdentity(t, store, "3")

	w := httptest.NewRecorder()
	if err := ClearIdentity(store, w, r); err != nil {
		t.Fatalf("clear identity: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected one expired cookie, got %+v", cookies)
	}
}
