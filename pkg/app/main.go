package app

import (
	"github.com/gorilla/sessions"
	"go.opentelemetry.io/otel/metric"

	"github.com/ghuser/clickcollect/pkg/cache"
	"github.com/ghuser/clickcollect/pkg/config"
	"github.com/ghuser/clickcollect/pkg/database"
	"github.com/ghuser/clickcollect/pkg/events"
	"github.com/ghuser/clickcollect/pkg/logger"
	"github.com/ghuser/clickcollect/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all services.
// It is built once in each cmd/ main and passed to every service's
// constructor and BookRoutes call; there are no package-level singletons.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context
// methods and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "item adjudicated", "list_id", id)
//
// Optional members are nil when the backing system is not configured:
// Redis (catalog cache and sessions), TemporalClient (payment hand-off) and
// SessionStore (worker process).
type Application struct {
	Config         *config.Config
	Db             *database.Database
	Logger         logger.Logger
	Meter          metric.Meter
	EventBus       *events.EventBus
	Redis          *cache.RedisClient
	TemporalClient *workflows.TemporalClient
	SessionStore   sessions.Store
}
