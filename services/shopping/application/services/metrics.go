package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/ghuser/clickcollect/pkg/logger"
	"github.com/ghuser/clickcollect/services/shopping/domain"
)

// engineMetrics holds the engine's OTel counters. Exported through the
// Prometheus reader configured in pkg/telemetry.
type engineMetrics struct {
	listsCreated     metric.Int64Counter
	itemsAdjudicated metric.Int64Counter
	listsCompleted   metric.Int64Counter
	rejected         metric.Int64Counter
}

func newEngineMetrics(meter metric.Meter, log logger.Logger) *engineMetrics {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("shopping")
	}
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			log.Warn("metric registration failed", "metric", name, "error", err)
			return noop.Int64Counter{}
		}
		return c
	}
	return &engineMetrics{
		listsCreated:     counter("shopping.lists.created", "Shopping lists created"),
		itemsAdjudicated: counter("shopping.items.adjudicated", "Items marked collected or unavailable"),
		listsCompleted:   counter("shopping.lists.completed", "Shopping lists handed off for payment"),
		rejected:         counter("shopping.transitions.rejected", "State changes refused by the lifecycle rules"),
	}
}

func (m *engineMetrics) itemAdjudicated(ctx context.Context, status string) {
	m.itemsAdjudicated.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// reject counts lifecycle refusals. Other failures are not transitions.
func (m *engineMetrics) reject(ctx context.Context, err error) {
	var reason string
	switch {
	case errors.Is(err, domain.ErrInvalidState):
		reason = "invalid_state"
	case errors.Is(err, domain.ErrPreconditionFailed):
		reason = "precondition_failed"
	default:
		return
	}
	m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
