package services

import (
	"github.com/ghuser/clickcollect/pkg/app"
	"github.com/ghuser/clickcollect/services/shopping/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Identity *IdentityService
}

// New wires the identity services. Users live in the shopping store.
func New(a *app.Application) *Services {
	return &Services{
		Identity: NewIdentityService(postgres.NewUserRepository(a.Db), a.Logger),
	}
}
