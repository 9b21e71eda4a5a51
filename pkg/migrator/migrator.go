// Package migrator applies the embedded goose migrations.
package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Result reports the schema version before and after a run.
type Result struct {
	From int64
	To   int64
}

// Applied reports whether the run changed the schema.
func (r Result) Applied() bool {
	return r.To != r.From
}

// RunMigrations opens dbURL and runs all pending goose migrations from files.
func RunMigrations(ctx context.Context, dbURL string, files fs.FS) (Result, error) {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	return Up(ctx, db, files)
}

// Up runs all pending migrations from files against an open handle. Running
// it against an up-to-date schema is a no-op, so it is safe to call on every
// bootstrap request.
func Up(ctx context.Context, db *sql.DB, files fs.FS) (Result, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, files)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create goose provider: %w", err)
	}

	from, err := provider.GetDBVersion(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read schema version: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return Result{From: from, To: from}, fmt.Errorf("failed to up migrations: %w", err)
	}

	to, err := provider.GetDBVersion(ctx)
	if err != nil {
		return Result{From: from, To: from}, fmt.Errorf("failed to read schema version: %w", err)
	}
	return Result{From: from, To: to}, nil
}
