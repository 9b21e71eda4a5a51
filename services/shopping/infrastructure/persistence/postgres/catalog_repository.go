package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ghuser/clickcollect/pkg/database"
	"github.com/ghuser/clickcollect/services/shopping/domain"
	"github.com/ghuser/clickcollect/services/shopping/domain/models"
	"github.com/ghuser/clickcollect/services/shopping/domain/repositories"
	"github.com/ghuser/clickcollect/services/shopping/infrastructure/persistence/postgres/db"
)

// ProductRepository implements repositories.ProductRepository.
type ProductRepository struct {
	db *database.Database
}

var _ repositories.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository(database *database.Database) *ProductRepository {
	return &ProductRepository{db: database}
}

func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	rows, err := db.New(r.db.DB()).ListProducts(ctx)
	if err != nil {
		return nil, translate(fmt.Errorf("query products: %w", database.Classify(err)))
	}
	out := make([]models.Product, 0, len(rows))
	for _, p := range rows {
		out = append(out, models.Product{ID: p.ID, Name: p.Name, Image: p.Image, Price: p.Price})
	}
	return out, nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := db.New(r.db.DB()).GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
		}
		return nil, translate(fmt.Errorf("query product: %w", database.Classify(err)))
	}
	return &models.Product{ID: p.ID, Name: p.Name, Image: p.Image, Price: p.Price}, nil
}

// UserRepository implements repositories.UserRepository.
type UserRepository struct {
	db *database.Database
}

var _ repositories.UserRepository = (*UserRepository)(nil)

func NewUserRepository(database *database.Database) *UserRepository {
	return &UserRepository{db: database}
}

func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := db.New(r.db.DB()).GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
		}
		return nil, translate(fmt.Errorf("query user: %w", database.Classify(err)))
	}
	return rowToUser(u), nil
}

func (r *UserRepository) ByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	rows, err := db.New(r.db.DB()).ListUsersByRole(ctx, string(role))
	if err != nil {
		return nil, translate(fmt.Errorf("query users: %w", database.Classify(err)))
	}
	out := make([]*models.User, 0, len(rows))
	for _, u := range rows {
		out = append(out, rowToUser(u))
	}
	return out, nil
}

func (r *UserRepository) LeastLoadedEmployee(ctx context.Context) (*models.User, error) {
	u, err := db.New(r.db.DB()).LeastLoadedEmployee(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no employees", domain.ErrUserNotFound)
		}
		return nil, translate(fmt.Errorf("query employees: %w", database.Classify(err)))
	}
	return rowToUser(u), nil
}

func rowToUser(u db.User) *models.User {
	return &models.User{ID: u.ID, Name: u.Name, Role: models.Role(u.Role)}
}
