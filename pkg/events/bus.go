// Package events is the PostgreSQL-backed event bus shared by the API and
// the worker. Shopping-list lifecycle events are written to Watermill's SQL
// tables inside the transaction that changed the list, and consumed by the
// worker through a consumer group, so each event is handled by one worker
// instance.
//
// Handlers must be idempotent: a failed message is retried with backoff
// and then nacked, which makes Watermill redeliver it.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/clickcollect/pkg/config"
	"github.com/ghuser/clickcollect/pkg/logger"
)

const (
	outboxTopic     = "_clickcollect_outbox"
	outboxGroup     = "outbox-forwarder"
	drainTimeout    = 30 * time.Second
	errChanCapacity = 100
)

var (
	// ErrNoDatabase is returned when the bus is built without a handle.
	ErrNoDatabase = errors.New("events: nil database handle")
	// ErrNotOutbox is returned by StartForwarder on a bus built by NewEventBus.
	ErrNotOutbox = errors.New("events: bus was not built with an outbox")
	// ErrForwarderRunning is returned when StartForwarder is called twice.
	ErrForwarderRunning = errors.New("events: forwarder already running")
)

// EventBus publishes and consumes messages stored in PostgreSQL. It borrows
// the *sql.DB of pkg/database and never closes it.
type EventBus struct {
	db         *sql.DB
	log        logger.Logger
	wlog       watermill.LoggerAdapter
	group      string
	outbox     bool
	publisher  message.Publisher
	subscriber *watermillsql.Subscriber
	fwd        *forwarder.Forwarder
	retry      retryPolicy
	inflight   sync.WaitGroup
}

// NewEventBus returns a bus that publishes straight to the target topics.
// The worker uses it; subscribers share the "<service>-consumer" group.
func NewEventBus(db *sql.DB, cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return build(db, cfg, log, false)
}

// NewEventBusWithForwarder returns a bus whose publishers write into an
// outbox topic. StartForwarder moves outbox rows to their target topics, so
// an event committed with a list is delivered even if the API process dies
// right after the commit.
func NewEventBusWithForwarder(db *sql.DB, cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return build(db, cfg, log, true)
}

func build(db *sql.DB, cfg *config.Config, log logger.Logger, outbox bool) (*EventBus, error) {
	if db == nil {
		return nil, ErrNoDatabase
	}
	b := &EventBus{
		db:     db,
		log:    log,
		wlog:   &slogAdapter{log: log},
		group:  cfg.ServiceName + "-consumer",
		outbox: outbox,
		retry:  defaultRetry,
	}

	pub, err := b.sqlPublisher(db, true)
	if err != nil {
		return nil, err
	}
	b.publisher = b.wrap(pub)

	b.subscriber, err = b.sqlSubscriber(b.group)
	if err != nil {
		_ = pub.Close()
		return nil, err
	}
	return b, nil
}

func (b *EventBus) sqlPublisher(db watermillsql.ContextExecutor, initSchema bool) (*watermillsql.Publisher, error) {
	pub, err := watermillsql.NewPublisher(db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: initSchema,
	}, b.wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	return pub, nil
}

func (b *EventBus) sqlSubscriber(group string) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(b.db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, b.wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber (%s): %w", group, err)
	}
	return sub, nil
}

// wrap routes pub through the outbox topic when the bus is in outbox mode.
func (b *EventBus) wrap(pub message.Publisher) message.Publisher {
	if !b.outbox {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: outboxTopic})
}

// StartForwarder runs the outbox forwarder until ctx is cancelled. It
// returns once the forwarder is consuming.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	if !b.outbox {
		return ErrNotOutbox
	}
	if b.fwd != nil {
		return ErrForwarderRunning
	}

	src, err := b.sqlSubscriber(outboxGroup)
	if err != nil {
		return err
	}
	dst, err := b.sqlPublisher(b.db, true)
	if err != nil {
		_ = src.Close()
		return err
	}
	fwd, err := forwarder.NewForwarder(src, dst, b.wlog, forwarder.Config{ForwarderTopic: outboxTopic})
	if err != nil {
		_ = dst.Close()
		_ = src.Close()
		return fmt.Errorf("events: new forwarder: %w", err)
	}
	b.fwd = fwd

	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "outbox forwarder stopped", "error", err)
			return
		}
		b.log.InfoContext(ctx, "outbox forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		b.log.InfoContext(ctx, "outbox forwarder running", "topic", outboxTopic)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}

// DB returns the borrowed database handle.
func (b *EventBus) DB() *sql.DB {
	return b.db
}

// NewTxPublisher returns a publisher that writes into tx. Messages become
// visible to subscribers only when tx commits. The tables already exist
// once the bus is built, so the publisher skips schema initialisation.
func (b *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := b.sqlPublisher(tx, false)
	if err != nil {
		return nil, err
	}
	return b.wrap(pub), nil
}

// Publish sends msgs to topic outside any transaction, stamping each with
// the trace context of ctx.
func (b *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		injectTrace(ctx, msg)
	}
	if err := b.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Ping checks the database behind the bus.
func (b *EventBus) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops consuming, waits for in-flight handlers for at most
// drainTimeout and closes the publisher.
func (b *EventBus) Close() error {
	if err := b.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
		b.log.Error("events: in-flight handlers still running after drain timeout", "timeout", drainTimeout)
	}

	if err := b.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return nil
}

// slogAdapter lets Watermill log through logger.Logger.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(args(fields), "error", err)...)
}

func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, args(fields)...)
}

func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, args(fields)...)
}

func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, args(fields)...)
}

func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(args(fields)...)}
}

func args(fields watermill.LogFields) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}
