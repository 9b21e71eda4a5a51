package auth

import (
	"context"
	"errors"
	"testing"
)

func TestWithUserID_UserIDFromCtx(t *testing.T) {
	ctx := WithUserID(context.Background(), "2")

	got, err := UserIDFromCtx(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2" {
		t.Fatalf("expected 2, got %q", got)
	}
}

func TestUserIDFromCtx_EmptyContext(t *testing.T) {
	_, err := UserIDFromCtx(context.Background())
	if !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}
}

func TestUserIDFromCtx_EmptyID(t *testing.T) {
	_, err := UserIDFromCtx(WithUserID(context.Background(), ""))
	if !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity for empty id, got %v", err)
	}
}
