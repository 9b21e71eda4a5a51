package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/clickcollect/pkg/app"
	"github.com/ghuser/clickcollect/services/shopping/application/handlers"
	appsvcs "github.com/ghuser/clickcollect/services/shopping/application/services"
)

// ShoppingRoutes registers catalog, shopping list and setup endpoints on the
// provided chi router.
func ShoppingRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	Mount(r, svcs.Catalog, svcs.Engine, svcs.Setup)
}

// Mount registers the shopping endpoints against explicit dependencies.
func Mount(r chi.Router, catalog handlers.Catalog, engine handlers.ListEngine, setup handlers.Bootstrapper) {
	r.Get("/products", handlers.NewGetProductsHandler(catalog).Execute)
	r.Post("/setup", handlers.NewPostSetupHandler(setup).Execute)
	r.Route("/shopping-lists", func(r chi.Router) {
		r.Get("/", handlers.NewGetShoppingListsHandler(engine).Execute)
		r.Post("/", handlers.NewPostShoppingListHandler(engine).Execute)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.NewGetShoppingListHandler(engine).Execute)
			r.Patch("/", handlers.NewPatchShoppingListHandler(engine).Execute)
			r.Post("/complete", handlers.NewCompleteShoppingListHandler(engine).Execute)
		})
	})
}
