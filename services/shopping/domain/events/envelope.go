package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/clickcollect/services/shopping/domain/models"
)

// schemaVersion is the payload version stamped on every shopping event.
const schemaVersion = 1

// Envelope is an event waiting to be written to the outbox together with
// the state change that produced it.
type Envelope struct {
	Topic   string
	EventID uuid.UUID
	Version int
	Payload any
}

// ListCreated builds the envelope announcing a new list.
func ListCreated(list *models.ShoppingList) Envelope {
	id := uuid.New()
	return Envelope{
		Topic:   TopicListCreated,
		EventID: id,
		Version: schemaVersion,
		Payload: ListCreatedEvent{
			EventID:            id,
			Version:            schemaVersion,
			ListID:             list.ID,
			CustomerID:         list.CustomerID,
			AssignedEmployeeID: list.AssignedEmployeeID,
			ItemCount:          len(list.Items),
			OccurredAt:         list.CreatedAt,
		},
	}
}

// ItemAdjudicated builds the envelope for an item marked collected or unavailable.
func ItemAdjudicated(list *models.ShoppingList, item *models.Item) Envelope {
	id := uuid.New()
	return Envelope{
		Topic:   TopicItemAdjudicated,
		EventID: id,
		Version: schemaVersion,
		Payload: ItemAdjudicatedEvent{
			EventID:    id,
			Version:    schemaVersion,
			ListID:     list.ID,
			ItemID:     item.ID,
			Status:     item.Status.String(),
			ListStatus: list.Status.String(),
			OccurredAt: item.UpdatedAt,
		},
	}
}

// ListCompleted builds the payment hand-off envelope for a completed list.
func ListCompleted(list *models.ShoppingList, at time.Time) Envelope {
	id := uuid.New()
	items := make([]CompletedItem, 0, len(list.Items))
	for _, it := range list.Items {
		items = append(items, CompletedItem{
			ItemID:    it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Status:    it.Status.String(),
		})
	}
	return Envelope{
		Topic:   TopicListCompleted,
		EventID: id,
		Version: schemaVersion,
		Payload: ListCompletedEvent{
			EventID:        id,
			Version:        schemaVersion,
			ListID:         list.ID,
			CustomerID:     list.CustomerID,
			CustomerName:   list.CustomerName,
			Items:          items,
			EstimatedTotal: list.Summary().EstimatedTotal.StringFixed(2),
			OccurredAt:     at,
		},
	}
}
