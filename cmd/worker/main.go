package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/clickcollect/pkg/app"
	"github.com/ghuser/clickcollect/pkg/config"
	"github.com/ghuser/clickcollect/pkg/database"
	"github.com/ghuser/clickcollect/pkg/events"
	"github.com/ghuser/clickcollect/pkg/logger"
	"github.com/ghuser/clickcollect/pkg/telemetry"
	"github.com/ghuser/clickcollect/pkg/workflows"
	"github.com/ghuser/clickcollect/services/shopping/application/subscribers"
	shoppingEvents "github.com/ghuser/clickcollect/services/shopping/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	db, err := database.NewPool(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer db.Close()

	eventBus, err := events.NewEventBus(db.DB(), cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	a := &app.Application{
		Config:   cfg,
		Db:       db,
		Logger:   log,
		EventBus: eventBus,
	}

	if cfg.TemporalEnabled {
		temporalClient, err := workflows.NewTemporalClient(ctx, cfg, log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer temporalClient.Close()
		a.TemporalClient = temporalClient
	}

	if err := registerSubscribers(ctx, a); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	var handoff subscribers.Handoff
	if a.TemporalClient != nil {
		handoff = workflows.NewPaymentHandoff(a.TemporalClient.Client, a.Config.PaymentTaskQueue, a.Logger)
	}

	topics, err := a.EventBus.SubscribeAll(ctx, map[string]events.Handler{
		shoppingEvents.TopicListCompleted: subscribers.HandleListCompleted(handoff, a.Logger),
		shoppingEvents.TopicListCreated:   subscribers.HandleListCreated(a.Logger),
	})
	if err != nil {
		return err
	}

	a.Logger.Info("event subscribers registered", "topics", topics, "payment_handoff", handoff != nil)
	return nil
}
