package workflows

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	temporallog "go.temporal.io/sdk/log"

	"github.com/ghuser/clickcollect/pkg/config"
	"github.com/ghuser/clickcollect/pkg/logger"
)

// TemporalClient is the connection to the Temporal cluster that runs the
// payment service's workflows.
type TemporalClient struct {
	Client    client.Client
	Namespace string
	log       logger.Logger
}

// NewTemporalClient dials cfg.TemporalHostPort in cfg.TemporalNamespace
// with tracing propagated to the started workflows, and checks the server
// is serving before returning.
func NewTemporalClient(ctx context.Context, cfg *config.Config, log logger.Logger) (*TemporalClient, error) {
	tracing, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: otel.Tracer("clickcollect/payment-handoff"),
	})
	if err != nil {
		return nil, fmt.Errorf("temporal tracing interceptor: %w", err)
	}

	c, err := client.DialContext(ctx, client.Options{
		HostPort:     cfg.TemporalHostPort,
		Namespace:    cfg.TemporalNamespace,
		Logger:       temporalLogger{log: log.With("component", "temporal")},
		Interceptors: []interceptor.ClientInterceptor{tracing},
	})
	if err != nil {
		return nil, fmt.Errorf("dial temporal at %s: %w", cfg.TemporalHostPort, err)
	}

	tc := &TemporalClient{Client: c, Namespace: cfg.TemporalNamespace, log: log}
	if err := tc.Ping(ctx); err != nil {
		c.Close()
		return nil, err
	}
	log.Info("temporal client connected",
		"host_port", cfg.TemporalHostPort,
		"namespace", cfg.TemporalNamespace,
		"task_queue", cfg.PaymentTaskQueue,
	)
	return tc, nil
}

// Ping asks the frontend service for its health.
func (tc *TemporalClient) Ping(ctx context.Context) error {
	if _, err := tc.Client.CheckHealth(ctx, &client.CheckHealthRequest{}); err != nil {
		return fmt.Errorf("temporal health: %w", err)
	}
	return nil
}

// Close releases the connection.
func (tc *TemporalClient) Close() {
	tc.Client.Close()
	tc.log.Info("temporal client closed")
}

// temporalLogger routes SDK logs through logger.Logger.
type temporalLogger struct {
	log logger.Logger
}

var (
	_ temporallog.Logger     = temporalLogger{}
	_ temporallog.WithLogger = temporalLogger{}
)

func (l temporalLogger) Debug(msg string, keyvals ...any) { l.log.Debug(msg, keyvals...) }
func (l temporalLogger) Info(msg string, keyvals ...any)  { l.log.Info(msg, keyvals...) }
func (l temporalLogger) Warn(msg string, keyvals ...any)  { l.log.Warn(msg, keyvals...) }
func (l temporalLogger) Error(msg string, keyvals ...any) { l.log.Error(msg, keyvals...) }

func (l temporalLogger) With(keyvals ...any) temporallog.Logger {
	return temporalLogger{log: l.log.With(keyvals...)}
}
