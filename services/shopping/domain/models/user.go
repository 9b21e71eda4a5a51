package models

import (
	"fmt"

	"github.com/ghuser/clickcollect/services/shopping/domain"
)

// Role is the self-selected kind of user. There are no credentials behind it.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleEmployee Role = "employee"
)

// ParseRole converts s into a Role or returns ErrInvalidInput.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleCustomer, RoleEmployee:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, s)
}

// User is a customer or employee. Immutable after creation.
type User struct {
	ID   string
	Name string
	Role Role
}
