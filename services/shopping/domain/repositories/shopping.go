package repositories

import (
	"context"

	"github.com/ghuser/clickcollect/services/shopping/domain/events"
	"github.com/ghuser/clickcollect/services/shopping/domain/models"
)

// ListFilter selects lists for the query operations. Zero value means all lists.
type ListFilter struct {
	CustomerID string
	EmployeeID string
	ActiveOnly bool // exclude completed lists
}

// UpdateFunc mutates a locked list and returns the events to publish with
// the change. Returning an error aborts the transaction.
type UpdateFunc func(list *models.ShoppingList) ([]events.Envelope, error)

// ListRepository is the persistence interface for the ShoppingList aggregate.
// The domain layer owns this interface; infrastructure implements it.
type ListRepository interface {
	// Create persists the list, all its items and evts in one transaction.
	Create(ctx context.Context, list *models.ShoppingList, evts ...events.Envelope) error

	// Update locks the list row for the duration of a transaction, loads the
	// aggregate, applies fn and persists whatever fn changed together with
	// the returned events. Returns ErrListNotFound if the list is absent.
	Update(ctx context.Context, id string, fn UpdateFunc) (*models.ShoppingList, error)

	Get(ctx context.Context, id string) (*models.ShoppingList, error)

	// Find returns lists most recent first, items in creation order.
	Find(ctx context.Context, filter ListFilter) ([]*models.ShoppingList, error)
}

// ProductRepository reads the catalog.
type ProductRepository interface {
	// All returns every product ordered by name.
	All(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
}

// UserRepository reads users. Users are seeded, never written by the engine.
type UserRepository interface {
	Get(ctx context.Context, id string) (*models.User, error)
	ByRole(ctx context.Context, role models.Role) ([]*models.User, error)

	// LeastLoadedEmployee returns the employee with the fewest active lists.
	// Returns ErrUserNotFound when there are no employees.
	LeastLoadedEmployee(ctx context.Context) (*models.User, error)
}
