package subscribers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/shopspring/decimal"

	pkgevents "github.com/ghuser/clickcollect/pkg/events"
	"github.com/ghuser/clickcollect/pkg/logger"
	"github.com/ghuser/clickcollect/pkg/workflows"
	"github.com/ghuser/clickcollect/services/shopping/domain/events"
	"github.com/ghuser/clickcollect/services/shopping/domain/models"
)

type recordingHandoff struct {
	reqs []workflows.PaymentRequest
	err  error
}

func (h *recordingHandoff) Start(_ context.Context, req workflows.PaymentRequest) error {
	h.reqs = append(h.reqs, req)
	return h.err
}

func completedList() *models.ShoppingList {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.ShoppingList{
		ID:           "list-1",
		CustomerID:   "1",
		CustomerName: "John Customer",
		Status:       models.ListCompleted,
		Items: []models.Item{
			{ID: "item-1", ProductID: "1", UnitPrice: decimal.RequireFromString("1.50"), Quantity: 2, Status: models.ItemCollected},
			{ID: "item-2", ProductID: "3", UnitPrice: decimal.RequireFromString("1.20"), Quantity: 1, Status: models.ItemUnavailable},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func toMessage(t *testing.T, env events.Envelope) *message.Message {
	t.Helper()
	msg, err := pkgevents.NewMessage(context.Background(), env.EventID, env.Version, env.Payload)
	if err != nil {
		t.Fatalf("new message: %v", err)
	}
	return msg
}

func TestHandleListCompleted(t *testing.T) {
	handoff := &recordingHandoff{}
	list := completedList()
	msg := toMessage(t, events.ListCompleted(list, list.UpdatedAt))

	if err := HandleListCompleted(handoff, logger.Discard())(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(handoff.reqs) != 1 {
		t.Fatalf("expected one hand-off, got %d", len(handoff.reqs))
	}
	req := handoff.reqs[0]
	if req.ListID != "list-1" || req.CustomerID != "1" || req.EstimatedTotal != "3.00" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if len(req.Lines) != 2 || !req.Lines[0].Collected || req.Lines[1].Collected {
		t.Fatalf("unexpected lines: %+v", req.Lines)
	}
}

func TestHandleListCompleted_HandoffErrorIsRetried(t *testing.T) {
	boom := errors.New("temporal down")
	list := completedList()
	msg := toMessage(t, events.ListCompleted(list, list.UpdatedAt))

	err := HandleListCompleted(&recordingHandoff{err: boom}, logger.Discard())(context.Background(), msg)
	if !errors.Is(err, boom) {
		t.Fatalf("expected hand-off error to reach the bus, got %v", err)
	}
}

func TestHandleListCompleted_WithoutWorkflowEngine(t *testing.T) {
	list := completedList()
	msg := toMessage(t, events.ListCompleted(list, list.UpdatedAt))

	if err := HandleListCompleted(nil, logger.Discard())(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHandlers_RejectMalformedPayload(t *testing.T) {
	msg := message.NewMessage("m-1", []byte("{not json"))

	if err := HandleListCompleted(&recordingHandoff{}, logger.Discard())(context.Background(), msg); err == nil {
		t.Fatal("expected decode error from completed handler")
	}
	if err := HandleListCreated(logger.Discard())(context.Background(), msg); err == nil {
		t.Fatal("expected decode error from created handler")
	}
}

func TestHandleListCreated(t *testing.T) {
	list := completedList()
	list.AssignedEmployeeID = "2"
	msg := toMessage(t, events.ListCreated(list))

	if err := HandleListCreated(logger.Discard())(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
