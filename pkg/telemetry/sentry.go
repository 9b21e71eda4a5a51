package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/ghuser/clickcollect/pkg/config"
)

// SetupSentry initialises the Sentry SDK. Without a DSN it does nothing and
// CaptureError becomes a no-op.
func SetupSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.ServiceName + "@" + cfg.ServiceVersion,
		TracesSampleRate: sampleRatio(cfg),
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

// SentryFlush waits up to two seconds for buffered events before exit.
func SentryFlush() {
	sentry.Flush(2 * time.Second)
}

// SentryMiddleware reports handler panics and re-panics so the recovery
// middleware still writes the 500.
func SentryMiddleware() func(http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle
}

// CaptureError reports err with the given tags on the request hub of ctx,
// or the global hub outside a request.
func CaptureError(ctx context.Context, err error, tags map[string]string) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		hub.CaptureException(err)
	})
}
