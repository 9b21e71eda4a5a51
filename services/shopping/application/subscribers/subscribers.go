// Package subscribers holds the worker-side handlers for shopping list events.
// Handlers must be idempotent: the event bus retries them on failure.
package subscribers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	pkgevents "github.com/ghuser/clickcollect/pkg/events"
	"github.com/ghuser/clickcollect/pkg/logger"
	"github.com/ghuser/clickcollect/pkg/workflows"
	"github.com/ghuser/clickcollect/services/shopping/domain/events"
	"github.com/ghuser/clickcollect/services/shopping/domain/models"
)

// Handoff starts the external payment step for a completed list.
type Handoff interface {
	Start(ctx context.Context, req workflows.PaymentRequest) error
}

// HandleListCompleted forwards shopping_list.completed to payment. With a nil
// handoff the hand-off is only logged.
func HandleListCompleted(handoff Handoff, log logger.Logger) pkgevents.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := pkgevents.Decode[events.ListCompletedEvent](msg)
		if err != nil {
			return err
		}

		req := workflows.PaymentRequest{
			ListID:         evt.ListID,
			CustomerID:     evt.CustomerID,
			CustomerName:   evt.CustomerName,
			EstimatedTotal: evt.EstimatedTotal,
			Lines:          make([]workflows.PaymentLine, 0, len(evt.Items)),
		}
		for _, it := range evt.Items {
			req.Lines = append(req.Lines, workflows.PaymentLine{
				ItemID:    it.ItemID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				Collected: it.Status == models.ItemCollected.String(),
			})
		}

		if handoff == nil {
			log.InfoContext(ctx, "payment hand-off pending, no workflow engine configured",
				"list_id", evt.ListID, "event_id", evt.EventID, "estimated_total", evt.EstimatedTotal)
			return nil
		}
		return handoff.Start(ctx, req)
	}
}

// HandleListCreated logs a new list arriving in an employee's queue.
func HandleListCreated(log logger.Logger) pkgevents.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := pkgevents.Decode[events.ListCreatedEvent](msg)
		if err != nil {
			return err
		}
		if evt.AssignedEmployeeID == "" {
			log.WarnContext(ctx, "shopping list queued without an employee", "list_id", evt.ListID)
			return nil
		}
		log.InfoContext(ctx, "shopping list queued",
			"list_id", evt.ListID, "employee_id", evt.AssignedEmployeeID, "items", evt.ItemCount)
		return nil
	}
}
