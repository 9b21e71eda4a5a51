package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the shopping domain. Use errors.Is() to check these.
var (
	// ErrInvalidInput indicates malformed or missing fields, a non-positive
	// quantity, an empty item set or an unknown status value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is the parent of every "referenced entity absent" error.
	ErrNotFound = errors.New("not found")

	// ErrPreconditionFailed indicates the operation is not allowed yet,
	// e.g. completing a list that still has pending items.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrInvalidState indicates a mutation of a list in a terminal state or
	// a transition the state machine does not allow.
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict indicates a storage-level transaction conflict. Retryable.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable indicates the store cannot be reached.
	ErrUnavailable = errors.New("store unavailable")
)

// Entity-specific not-found errors; all match ErrNotFound.
var (
	ErrListNotFound    = fmt.Errorf("shopping list %w", ErrNotFound)
	ErrItemNotFound    = fmt.Errorf("item %w", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
)
