// Package services implements identity selection. A caller picks which
// customer or employee to act as; nothing is verified.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ghuser/clickcollect/pkg/logger"
	"github.com/ghuser/clickcollect/services/shopping/domain"
	"github.com/ghuser/clickcollect/services/shopping/domain/models"
)

// Directory is the read side of the user store.
type Directory interface {
	Get(ctx context.Context, id string) (*models.User, error)
	ByRole(ctx context.Context, role models.Role) ([]*models.User, error)
}

// IdentityService looks up users and resolves identity selections.
type IdentityService struct {
	users Directory
	log   logger.Logger
}

// NewIdentityService returns an IdentityService.
func NewIdentityService(users Directory, log logger.Logger) *IdentityService {
	return &IdentityService{users: users, log: log}
}

// User returns one user.
func (s *IdentityService) User(ctx context.Context, id string) (*models.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	return s.users.Get(ctx, id)
}

// UsersByRole returns the users holding role, ordered by id.
func (s *IdentityService) UsersByRole(ctx context.Context, role string) ([]*models.User, error) {
	r, err := models.ParseRole(role)
	if err != nil {
		return nil, err
	}
	return s.users.ByRole(ctx, r)
}

// Select resolves the identity to act as. An explicit userID wins; a role
// alone picks the first user holding it.
func (s *IdentityService) Select(ctx context.Context, role, userID string) (*models.User, error) {
	var (
		u   *models.User
		err error
	)
	switch {
	case strings.TrimSpace(userID) != "":
		u, err = s.users.Get(ctx, userID)
	case strings.TrimSpace(role) != "":
		var users []*models.User
		users, err = s.UsersByRole(ctx, role)
		if err == nil && len(users) == 0 {
			err = fmt.Errorf("%w: no user with role %s", domain.ErrUserNotFound, role)
		}
		if err == nil {
			u = users[0]
		}
	default:
		err = fmt.Errorf("%w: role or userId is required", domain.ErrInvalidInput)
	}
	if err != nil {
		s.log.WarnContext(ctx, "identity selection rejected", "role", role, "user_id", userID, "error", err)
		return nil, err
	}

	s.log.InfoContext(ctx, "identity selected", "user_id", u.ID, "role", u.Role)
	return u, nil
}
