package events

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/clickcollect/pkg/logger"
	"github.com/ghuser/clickcollect/pkg/telemetry"
)

// Handler processes one message. A nil return acks it.
type Handler func(context.Context, *message.Message) error

type retryPolicy struct {
	attempts int
	delay    time.Duration
}

var defaultRetry = retryPolicy{attempts: 3, delay: time.Second}

// run calls h until it succeeds or the attempts are used up, doubling the
// delay between attempts.
func (p retryPolicy) run(ctx context.Context, msg *message.Message, h Handler, log logger.Logger) error {
	delay := p.delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = h(ctx, msg); err == nil {
			return nil
		}
		if attempt >= p.attempts {
			return fmt.Errorf("events: message %s failed after %d attempts: %w", msg.UUID, p.attempts, err)
		}
		log.WarnContext(ctx, "event handler failed, retrying",
			"message_id", msg.UUID,
			"attempt", attempt,
			"next_delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// Subscribe consumes topic in the background. Each message is handled with
// the publisher's trace restored in its context; a message whose handler
// keeps failing is nacked and its error sent on the returned channel.
//
// The channel is buffered and closed when consumption stops. Callers must
// drain it; errors that do not fit are logged and dropped.
func (b *EventBus) Subscribe(ctx context.Context, topic string, h Handler) (<-chan error, error) {
	msgs, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errs := make(chan error, errChanCapacity)
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		defer close(errs)
		for msg := range msgs {
			b.consume(extractTrace(ctx, msg), topic, msg, h, errs)
		}
	}()
	return errs, nil
}

func (b *EventBus) consume(ctx context.Context, topic string, msg *message.Message, h Handler, errs chan<- error) {
	if err := b.retry.run(ctx, msg, h, b.log); err != nil {
		msg.Nack()
		select {
		case errs <- err:
		default:
			b.log.ErrorContext(ctx, "event error channel full", "topic", topic, "error", err)
		}
		return
	}
	msg.Ack()
}

// SubscribeAll subscribes every handler to its topic and returns the
// topics in order. Messages whose handler gives up are logged and reported
// to Sentry.
func (b *EventBus) SubscribeAll(ctx context.Context, handlers map[string]Handler) ([]string, error) {
	topics := make([]string, 0, len(handlers))
	for topic := range handlers {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	for _, topic := range topics {
		errs, err := b.Subscribe(ctx, topic, handlers[topic])
		if err != nil {
			return nil, err
		}
		go func() {
			for err := range errs {
				b.log.ErrorContext(ctx, "event handler gave up", "topic", topic, "error", err)
				telemetry.CaptureError(ctx, err, map[string]string{"topic": topic})
			}
		}()
	}
	return topics, nil
}
