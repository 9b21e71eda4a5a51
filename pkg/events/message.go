package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Metadata keys set by NewMessage.
const (
	MetaEventID      = "event_id"
	MetaEventVersion = "event_version"
)

// NewMessage encodes payload as JSON and stamps the event id, the payload
// version and the trace context of ctx into the metadata. Messages written
// through NewTxPublisher must be built here, since that publisher has no
// context of its own.
func NewMessage(ctx context.Context, eventID uuid.UUID, version int, payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(MetaEventID, eventID.String())
	msg.Metadata.Set(MetaEventVersion, strconv.Itoa(version))
	injectTrace(ctx, msg)
	return msg, nil
}

// Decode unmarshals the JSON payload of msg into T.
func Decode[T any](msg *message.Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("events: decode %s: %w", msg.UUID, err)
	}
	return v, nil
}

// Version returns the payload version stamped by NewMessage, or 0.
func Version(msg *message.Message) int {
	v, err := strconv.Atoi(msg.Metadata.Get(MetaEventVersion))
	if err != nil {
		return 0
	}
	return v
}

func injectTrace(ctx context.Context, msg *message.Message) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(msg.Metadata))
}

// extractTrace returns parent carrying the trace context found in msg.
func extractTrace(parent context.Context, msg *message.Message) context.Context {
	return otel.GetTextMapPropagator().Extract(parent, propagation.MapCarrier(msg.Metadata))
}
