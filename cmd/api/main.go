package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	_ "github.com/ghuser/clickcollect/docs/swagger"
	"github.com/ghuser/clickcollect/pkg/app"
	"github.com/ghuser/clickcollect/pkg/auth"
	"github.com/ghuser/clickcollect/pkg/cache"
	"github.com/ghuser/clickcollect/pkg/config"
	"github.com/ghuser/clickcollect/pkg/database"
	"github.com/ghuser/clickcollect/pkg/errhttp"
	"github.com/ghuser/clickcollect/pkg/events"
	"github.com/ghuser/clickcollect/pkg/httpx"
	"github.com/ghuser/clickcollect/pkg/logger"
	"github.com/ghuser/clickcollect/pkg/telemetry"
	identityApi "github.com/ghuser/clickcollect/services/identity/application/api"
	shoppingApi "github.com/ghuser/clickcollect/services/shopping/application/api"
)

// @title			Click & Collect API
// @version		1.0
// @description	Shopping lists assembled in store by employees and collected by customers.
// @license.name	MIT
// @license.url	https://opensource.org/licenses/MIT
// @host			localhost:8080
// @BasePath		/api
// @schemes		http https
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
	errhttp.Configure(cfg.Environment == config.EnvProduction)

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry (optional, log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	db, err := database.NewPool(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}
	defer db.Close()

	eventBus, err := events.NewEventBusWithForwarder(db.DB(), cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	if err := eventBus.StartForwarder(ctx); err != nil {
		log.Error("failed to start event forwarder", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	a := &app.Application{
		Config:   cfg,
		Db:       db,
		Logger:   log,
		Meter:    otel.Meter(cfg.ServiceName),
		EventBus: eventBus,
	}
	var redisPing httpx.Pinger

	// Redis backs the catalog cache and sessions. Without it the catalog is
	// read from Postgres and sessions fall back to signed cookies.
	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Warn("redis unavailable, continuing without catalog cache", "error", err)
		a.SessionStore = auth.NewCookieStore(cfg)
	} else {
		defer redisClient.Close() //nolint:errcheck
		log.Info("redis connected")
		a.Redis = redisClient
		a.SessionStore = auth.NewSessionStore(
			redisClient.Client(),
			[]byte(cfg.SessionAuthKey),
			[]byte(cfg.SessionEncryptionKey),
			cfg.Environment == config.EnvProduction,
		)
		redisPing = redisClient
	}

	r := httpx.NewRouter(httpx.OptionsFromConfig(cfg),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
		logger.Middleware(log),
	)

	r.Get("/health", httpx.HealthHandler(
		httpx.Check{Name: "database", Pinger: db},
		httpx.Check{Name: "redis", Pinger: redisPing},
		httpx.Check{Name: "event_bus", Pinger: eventBus},
	))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.LoadIdentity(a.SessionStore, log))
		registerRoutes(r, a)
	})

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// registerRoutes mounts all service routes under /api.
// Add each new service's route function here.
func registerRoutes(r chi.Router, a *app.Application) {
	shoppingApi.ShoppingRoutes(r, a)
	identityApi.IdentityRoutes(r, a)
}
