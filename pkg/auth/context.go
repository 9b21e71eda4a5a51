package auth

import (
	"context"
	"errors"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const userIDKey contextKey = "user_id"

// ErrNoIdentity is returned when no user has been selected for the request.
var ErrNoIdentity = errors.New("no identity selected")

// UserIDFromCtx returns the selected user id, or ErrNoIdentity.
func UserIDFromCtx(ctx context.Context) (string, error) {
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || id == "" {
		return "", ErrNoIdentity
	}
	return id, nil
}

// WithUserID returns a new context carrying the selected user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
