package services

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/ghuser/clickcollect/pkg/database"
	"github.com/ghuser/clickcollect/pkg/logger"
	"github.com/ghuser/clickcollect/pkg/migrator"
)

// SetupResult reports a bootstrap run.
type SetupResult struct {
	ServerVersion string
	FromVersion   int64
	ToVersion     int64
}

// SetupService bootstraps the store: it probes connectivity, applies the
// embedded schema and seed migrations and drops the cached catalog.
type SetupService struct {
	db      *database.Database
	catalog *CatalogService
	files   fs.FS
	log     logger.Logger
	migrate func(context.Context, *sql.DB, fs.FS) (migrator.Result, error)
}

// NewSetupService returns a SetupService applying migrations from files.
func NewSetupService(db *database.Database, catalog *CatalogService, files fs.FS, log logger.Logger) *SetupService {
	return &SetupService{db: db, catalog: catalog, files: files, log: log, migrate: migrator.Up}
}

// Run is idempotent. Connectivity failures come back classified as
// database.ErrAuthFailed, ErrHostNotFound or ErrConnRefused.
func (s *SetupService) Run(ctx context.Context) (*SetupResult, error) {
	version, err := s.db.Version(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "setup connectivity probe failed", "error", err)
		return nil, err
	}

	res, err := s.migrate(ctx, s.db.DB(), s.files)
	if err != nil {
		err = database.Classify(err)
		s.log.ErrorContext(ctx, "setup migrations failed", "error", err, "from_version", res.From)
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	s.catalog.Invalidate(ctx)
	s.log.InfoContext(ctx, "setup completed",
		"from_version", res.From, "to_version", res.To, "applied", res.Applied())
	return &SetupResult{ServerVersion: version, FromVersion: res.From, ToVersion: res.To}, nil
}
