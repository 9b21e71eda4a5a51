package database

import (
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUnavailable is the parent of every "cannot reach the store" error.
// Use errors.Is(err, ErrUnavailable) to detect any of the sub-causes below.
var ErrUnavailable = errors.New("database unavailable")

// Sub-causes of ErrUnavailable, distinguished for operator diagnostics.
var (
	ErrAuthFailed   = fmt.Errorf("%w: authentication failed", ErrUnavailable)
	ErrHostNotFound = fmt.Errorf("%w: host not found", ErrUnavailable)
	ErrConnRefused  = fmt.Errorf("%w: connection refused", ErrUnavailable)
)

// ErrSerialization indicates the transaction lost a race with a concurrent
// writer (serialization failure or deadlock). The caller may retry.
var ErrSerialization = errors.New("transaction conflict")

// PostgreSQL SQLSTATE codes the application reacts to.
const (
	codeInvalidPassword      = "28P01"
	codeInvalidAuthorization = "28000"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
)

// Classify maps driver and network errors onto the package sentinels while
// keeping the original error in the chain. Unrecognised errors are returned
// unchanged; nil stays nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnavailable) || errors.Is(err, ErrSerialization) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeInvalidPassword, codeInvalidAuthorization:
			return fmt.Errorf("%w: %w", ErrAuthFailed, err)
		case codeSerializationFailure, codeDeadlockDetected:
			return fmt.Errorf("%w: %w", ErrSerialization, err)
		}
		return err
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %w", ErrHostNotFound, err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("%w: %w", ErrConnRefused, err)
	}
	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

// IsCheckViolation reports whether err is a CHECK constraint violation.
func IsCheckViolation(err error) bool {
	return hasCode(err, codeCheckViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
