package postgres

import (
	"errors"
	"fmt"

	"github.com/ghuser/clickcollect/pkg/database"
	"github.com/ghuser/clickcollect/services/shopping/domain"
)

// translate maps storage errors onto domain sentinels, keeping the cause in
// the chain for logging. Domain errors pass through untouched.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrSerialization), database.IsUniqueViolation(err):
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	case errors.Is(err, database.ErrUnavailable):
		return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: reference to a missing user or product: %w", domain.ErrInvalidInput, err)
	case database.IsCheckViolation(err):
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return err
}
