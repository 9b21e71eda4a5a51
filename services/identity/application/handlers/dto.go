package handlers

import (
	"context"

	"github.com/ghuser/clickcollect/services/shopping/domain/models"
)

// Identities is the identity service as seen by the HTTP layer.
type Identities interface {
	User(ctx context.Context, id string) (*models.User, error)
	UsersByRole(ctx context.Context, role string) ([]*models.User, error)
	Select(ctx context.Context, role, userID string) (*models.User, error)
}

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"no identity selected"`
} // @name ErrorResponse

// UserResponse is a customer or employee.
type UserResponse struct {
	ID   string `json:"id"   example:"1"`
	Name string `json:"name" example:"John Customer"`
	Role string `json:"role" example:"customer"`
} // @name UserResponse

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Role: string(u.Role)}
}
