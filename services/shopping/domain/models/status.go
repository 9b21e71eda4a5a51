package models

import (
	"fmt"

	"github.com/ghuser/clickcollect/services/shopping/domain"
)

// ListStatus is the lifecycle state of a ShoppingList. It is derived by the
// engine and never set directly by callers.
type ListStatus string

const (
	ListPending    ListStatus = "pending"
	ListInProgress ListStatus = "in_progress"
	ListCompleted  ListStatus = "completed"
)

// ParseListStatus converts s into a ListStatus or returns ErrInvalidInput.
func ParseListStatus(s string) (ListStatus, error) {
	switch st := ListStatus(s); st {
	case ListPending, ListInProgress, ListCompleted:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown list status %q", domain.ErrInvalidInput, s)
}

// IsTerminal reports whether no further transitions are permitted.
func (s ListStatus) IsTerminal() bool {
	return s == ListCompleted
}

func (s ListStatus) String() string {
	return string(s)
}

// ItemStatus is the adjudication state of a single list item.
type ItemStatus string

const (
	ItemPending     ItemStatus = "pending"
	ItemCollected   ItemStatus = "collected"
	ItemUnavailable ItemStatus = "unavailable"
)

// ParseItemStatus converts s into an ItemStatus or returns ErrInvalidInput.
func ParseItemStatus(s string) (ItemStatus, error) {
	switch st := ItemStatus(s); st {
	case ItemPending, ItemCollected, ItemUnavailable:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown item status %q", domain.ErrInvalidInput, s)
}

// IsAdjudicated reports whether an employee has decided the item.
func (s ItemStatus) IsAdjudicated() bool {
	return s == ItemCollected || s == ItemUnavailable
}

func (s ItemStatus) String() string {
	return string(s)
}
