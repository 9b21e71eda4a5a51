package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/ghuser/clickcollect/pkg/app"
	"github.com/ghuser/clickcollect/pkg/logger"
	"github.com/ghuser/clickcollect/services/identity/application/handlers"
	appsvcs "github.com/ghuser/clickcollect/services/identity/application/services"
)

// IdentityRoutes registers user and session endpoints on the provided chi router.
// Session endpoints are skipped when no session store is configured.
func IdentityRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	Mount(r, svcs.Identity, a.SessionStore, a.Logger)
}

// Mount registers the identity endpoints against explicit dependencies.
func Mount(r chi.Router, identities handlers.Identities, store sessions.Store, log logger.Logger) {
	r.Get("/users", handlers.NewGetUsersHandler(identities).Execute)
	if store == nil {
		return
	}
	h := handlers.NewSessionHandler(identities, store, log)
	r.Route("/session", func(r chi.Router) {
		r.Post("/", h.Select)
		r.Get("/", h.Current)
		r.Delete("/", h.Clear)
	})
}
