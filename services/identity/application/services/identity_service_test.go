package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ghuser/clickcollect/pkg/logger"
	"github.com/ghuser/clickcollect/services/shopping/domain"
	"github.com/ghuser/clickcollect/services/shopping/domain/models"
)

type memDirectory map[string]*models.User

func (m memDirectory) Get(_ context.Context, id string) (*models.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
}

func (m memDirectory) ByRole(_ context.Context, role models.Role) ([]*models.User, error) {
	var out []*models.User
	for _, id := range []string{"1", "2", "3"} {
		if u, ok := m[id]; ok && u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func seeded() memDirectory {
	return memDirectory{
		"1": {ID: "1", Name: "John Customer", Role: models.RoleCustomer},
		"2": {ID: "2", Name: "Jane Employee", Role: models.RoleEmployee},
		"3": {ID: "3", Name: "Bob Customer", Role: models.RoleCustomer},
	}
}

func TestIdentityService_Select(t *testing.T) {
	tests := []struct {
		name    string
		dir     memDirectory
		role    string
		userID  string
		wantID  string
		wantErr error
	}{
		{name: "first customer", dir: seeded(), role: "customer", wantID: "1"},
		{name: "first employee", dir: seeded(), role: "employee", wantID: "2"},
		{name: "explicit user wins", dir: seeded(), role: "customer", userID: "3", wantID: "3"},
		{name: "unknown user", dir: seeded(), userID: "42", wantErr: domain.ErrNotFound},
		{name: "unknown role", dir: seeded(), role: "admin", wantErr: domain.ErrInvalidInput},
		{name: "nothing given", dir: seeded(), wantErr: domain.ErrInvalidInput},
		{name: "no employees", dir: memDirectory{"1": seeded()["1"]}, role: "employee", wantErr: domain.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewIdentityService(tt.dir, logger.Discard())
			u, err := svc.Select(context.Background(), tt.role, tt.userID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.ID != tt.wantID {
				t.Fatalf("got user %s, want %s", u.ID, tt.wantID)
			}
		})
	}
}

func TestIdentityService_UsersByRole(t *testing.T) {
	svc := NewIdentityService(seeded(), logger.Discard())

	users, err := svc.UsersByRole(context.Background(), "customer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 || users[0].ID != "1" || users[1].ID != "3" {
		t.Fatalf("unexpected users: %+v", users)
	}

	if _, err := svc.User(context.Background(), " "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank id, got %v", err)
	}
}
