// Package auth holds the identity-selection session: which user the caller
// chose to act as. It performs no authentication.
//
// Session keys should be 32 or 64 bytes for HMAC and 16, 24 or 32 bytes
// for AES. Generate production keys with:
//
//	openssl rand -base64 32
package auth

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"

	"github.com/ghuser/clickcollect/pkg/config"
)

const sessionKeyPrefix = "clickcollect:session:"

// sessionMaxAge covers one store shift; the selection is re-made afterwards.
const sessionMaxAge = 12 * 60 * 60

// RedisStore is a sessions.Store that keeps the selected user id in Redis
// under "clickcollect:session:<id>". The cookie carries only the signed
// and encrypted session id.
type RedisStore struct {
	client  redis.Cmdable
	codecs  []securecookie.Codec
	options sessions.Options
}

// NewSessionStore returns a RedisStore. secureCookie restricts the cookie to
// HTTPS and should be set in production.
func NewSessionStore(client redis.Cmdable, authKey, encryptionKey []byte, secureCookie bool) *RedisStore {
	return &RedisStore{
		client:  client,
		codecs:  securecookie.CodecsFromPairs(authKey, encryptionKey),
		options: cookieOptions(secureCookie),
	}
}

// NewCookieStore returns the fallback store used when Redis is unreachable:
// the user id travels in the signed and encrypted cookie itself.
func NewCookieStore(cfg *config.Config) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.SessionAuthKey), []byte(cfg.SessionEncryptionKey))
	opts := cookieOptions(cfg.Environment == config.EnvProduction)
	store.Options = &opts
	store.MaxAge(sessionMaxAge)
	return store
}

func cookieOptions(secure bool) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Get returns the request's cached session, loading it on first use.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the cookie. A missing, tampered or
// expired cookie, or a session no longer in Redis, yields a fresh session
// without error.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := s.options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return session, nil
	}

	userID, err := s.client.Get(r.Context(), sessionKeyPrefix+id).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return session, nil
	case err != nil:
		return session, fmt.Errorf("load session: %w", err)
	}

	session.ID = id
	session.Values[sessionUserIDKey] = userID
	session.IsNew = false
	return session, nil
}

// Save writes the selected user id with the session TTL and sets the
// cookie. A negative MaxAge, or a session without a user id, removes the
// Redis key and expires the cookie.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	userID, _ := session.Values[sessionUserIDKey].(string)
	if session.Options.MaxAge < 0 || userID == "" {
		return s.delete(r.Context(), w, session)
	}

	if session.ID == "" {
		session.ID = newSessionID()
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.client.Set(r.Context(), sessionKeyPrefix+session.ID, userID, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *RedisStore) delete(ctx context.Context, w http.ResponseWriter, session *sessions.Session) error {
	if session.ID != "" {
		if err := s.client.Del(ctx, sessionKeyPrefix+session.ID).Err(); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}
	opts := *session.Options
	opts.MaxAge = -1
	http.SetCookie(w, sessions.NewCookie(session.Name(), "", &opts))
	return nil
}

func newSessionID() string {
	return strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
}
