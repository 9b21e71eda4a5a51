package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the shopping engine. Every message is
// written to the outbox in the same transaction as the state change.
const (
	TopicListCreated     = "shopping_list.created"
	TopicItemAdjudicated = "shopping_list.item_adjudicated"
	TopicListCompleted   = "shopping_list.completed"
)

// ListCreatedEvent is published after a list and all its items are persisted.
type ListCreatedEvent struct {
	EventID            uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version            int       `json:"version"`  // Schema version; increment on breaking changes
	ListID             string    `json:"list_id"`
	CustomerID         string    `json:"customer_id"`
	AssignedEmployeeID string    `json:"assigned_employee_id,omitempty"`
	ItemCount          int       `json:"item_count"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// ItemAdjudicatedEvent is published when an employee marks an item
// collected or unavailable. Re-applying the same status publishes nothing.
type ItemAdjudicatedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ListID     string    `json:"list_id"`
	ItemID     string    `json:"item_id"`
	Status     string    `json:"status"`
	ListStatus string    `json:"list_status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CompletedItem is the payment-relevant view of one item of a completed list.
type CompletedItem struct {
	ItemID    string `json:"item_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"` // decimal string
	Status    string `json:"status"`
}

// ListCompletedEvent is the hand-off signal to the external payment step.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicListCompleted).
type ListCompletedEvent struct {
	EventID        uuid.UUID       `json:"event_id"`
	Version        int             `json:"version"`
	ListID         string          `json:"list_id"`
	CustomerID     string          `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	Items          []CompletedItem `json:"items"`
	EstimatedTotal string          `json:"estimated_total"` // decimal string, collected items only
	OccurredAt     time.Time       `json:"occurred_at"`
}
