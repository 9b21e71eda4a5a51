package services

import (
	"github.com/ghuser/clickcollect/migrations"
	"github.com/ghuser/clickcollect/pkg/app"
	"github.com/ghuser/clickcollect/pkg/cache"
	"github.com/ghuser/clickcollect/services/shopping/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Catalog *CatalogService
	Engine  *Engine
	Setup   *SetupService
}

// New wires all shopping application services with infrastructure from the
// Application container. The catalog cache is skipped when Redis is absent.
func New(a *app.Application) *Services {
	var productCache *cache.ProductCache
	if a.Redis != nil {
		ttl := cache.DefaultProductCacheTTL
		if a.Config != nil && a.Config.CatalogCacheTTL > 0 {
			ttl = a.Config.CatalogCacheTTL
		}
		productCache = cache.NewProductCache(a.Redis, ttl)
	}

	var outbox postgres.Outbox
	if a.EventBus != nil {
		outbox = a.EventBus
	}

	catalog := NewCatalogService(postgres.NewProductRepository(a.Db), productCache, a.Logger)
	return &Services{
		Catalog: catalog,
		Engine: NewEngine(
			postgres.NewListRepository(a.Db, outbox),
			postgres.NewUserRepository(a.Db),
			catalog,
			a.Logger,
			a.Meter,
		),
		Setup: NewSetupService(a.Db, catalog, migrations.FS, a.Logger),
	}
}
