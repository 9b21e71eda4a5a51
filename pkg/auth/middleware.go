package auth

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/clickcollect/pkg/logger"
)

// SessionName is the cookie name of the identity session.
const SessionName = "clickcollect_session"

const sessionUserIDKey = "user_id"

// LoadIdentity is a chi middleware that copies the selected user id from the
// session into the request context. It never rejects a request: the store is
// an identity selector, not an authentication mechanism.
func LoadIdentity(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil {
				next.ServeHTTP(w, r)
				return
			}
			session, err := store.Get(r, SessionName)
			if err != nil {
				log.DebugContext(r.Context(), "ignoring unreadable session", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if id, ok := session.Values[sessionUserIDKey].(string); ok && id != "" {
				r = r.WithContext(WithUserID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SelectIdentity stores userID in the session and writes the cookie.
func SelectIdentity(store sessions.Store, w http.ResponseWriter, r *http.Request, userID string) error {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return err
	}
	session.Values[sessionUserIDKey] = userID
	return session.Save(r, w)
}

// ClearIdentity deletes the session and expires the cookie.
func ClearIdentity(store sessions.Store, w http.ResponseWriter, r *http.Request) error {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return err
	}
	delete(session.Values, sessionUserIDKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
