// Package services contains stateless domain services for the shopping
// bounded context. Every status change of a list or an item is decided here,
// against a single transition table, so no caller can move an aggregate into
// a state the lifecycle does not allow.
package services

import (
	"fmt"
	"time"

	"github.com/ghuser/clickcollect/services/shopping/domain"
	"github.com/ghuser/clickcollect/services/shopping/domain/models"
)

// listTransitions lists every legal list status change. completed has no
// outgoing edge.
var listTransitions = map[models.ListStatus][]models.ListStatus{
	models.ListPending:    {models.ListInProgress},
	models.ListInProgress: {models.ListCompleted},
}

// itemTransitions lists every legal item status change. There is no undo.
var itemTransitions = map[models.ItemStatus][]models.ItemStatus{
	models.ItemPending: {models.ItemCollected, models.ItemUnavailable},
}

// CanTransitionList reports whether a list may move from one status to another.
func CanTransitionList(from, to models.ListStatus) bool {
	for _, s := range listTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanTransitionItem reports whether an item may move from one status to another.
func CanTransitionItem(from, to models.ItemStatus) bool {
	for _, s := range itemTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ItemChange describes the effect of SetItemStatus on a list.
type ItemChange struct {
	// Changed is false when the item already carried the requested status.
	Changed bool
	// From is the item status before the call.
	From models.ItemStatus
	// ListAdvanced is true when the list moved from pending to in_progress.
	ListAdvanced bool
}

// SetItemStatus adjudicates one item of list. Re-applying the status an
// item already has is a no-op; switching between collected and unavailable
// is rejected. The list advances to in_progress the first time any item
// leaves pending.
func SetItemStatus(list *models.ShoppingList, itemID string, status models.ItemStatus, now time.Time) (ItemChange, error) {
	if !status.IsAdjudicated() {
		return ItemChange{}, fmt.Errorf("%w: item status must be %s or %s, got %q",
			domain.ErrInvalidInput, models.ItemCollected, models.ItemUnavailable, status)
	}
	if list.Status.IsTerminal() {
		return ItemChange{}, fmt.Errorf("%w: list %s is %s", domain.ErrInvalidState, list.ID, list.Status)
	}

	item := list.Item(itemID)
	if item == nil {
		return ItemChange{}, fmt.Errorf("%w: %s in list %s", domain.ErrItemNotFound, itemID, list.ID)
	}

	change := ItemChange{From: item.Status}
	if item.Status == status {
		return change, nil
	}
	if !CanTransitionItem(item.Status, status) {
		return ItemChange{}, fmt.Errorf("%w: item %s is already %s", domain.ErrInvalidState, itemID, item.Status)
	}

	item.Status = status
	item.UpdatedAt = now
	list.UpdatedAt = now
	change.Changed = true

	if list.Status == models.ListPending {
		if !CanTransitionList(list.Status, models.ListInProgress) {
			return ItemChange{}, fmt.Errorf("%w: list %s cannot leave %s", domain.ErrInvalidState, list.ID, list.Status)
		}
		list.Status = models.ListInProgress
		change.ListAdvanced = true
	}

	return change, nil
}

// CompleteList moves list to completed. Every item must have been
// adjudicated first.
func CompleteList(list *models.ShoppingList, now time.Time) error {
	if list.Status.IsTerminal() {
		return fmt.Errorf("%w: list %s is already %s", domain.ErrInvalidState, list.ID, list.Status)
	}
	if n := list.PendingItems(); n > 0 {
		return fmt.Errorf("%w: list %s has %d pending item(s)", domain.ErrPreconditionFailed, list.ID, n)
	}
	if !CanTransitionList(list.Status, models.ListCompleted) {
		return fmt.Errorf("%w: list %s cannot move from %s to %s",
			domain.ErrInvalidState, list.ID, list.Status, models.ListCompleted)
	}

	list.Status = models.ListCompleted
	list.UpdatedAt = now
	return nil
}
