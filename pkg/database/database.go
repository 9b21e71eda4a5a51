// Package database owns the PostgreSQL connection handle shared by every
// repository. The handle is constructed once at process start and passed
// down explicitly; there is no package-level pool.
//
// Repositories use database/sql (backed by a pgx pool through the pgx stdlib
// bridge) so that Watermill's SQL publisher can join the same *sql.Tx as the
// business writes.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/ghuser/clickcollect/pkg/config"
	"github.com/ghuser/clickcollect/pkg/logger"
)

// Database wraps a pgx pool and the database/sql view over it.
type Database struct {
	pool *pgxpool.Pool
	db   *sql.DB
}

// NewPool connects to PostgreSQL using cfg.DatabaseURL, verifies the
// connection with a ping and returns the shared handle. Connection failures
// are classified (see Classify) so operators can tell a bad password from a
// wrong host or a stopped server.
func NewPool(ctx context.Context, cfg *config.Config, log logger.Logger) (*Database, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.DBMaxConns > 0 {
		pcfg.MaxConns = cfg.DBMaxConns
	}
	if cfg.DBConnectTimeout > 0 {
		pcfg.ConnConfig.ConnectTimeout = cfg.DBConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", Classify(err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, pcfg.ConnConfig.ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", Classify(err))
	}

	log.Info("database pool configured",
		"host", pcfg.ConnConfig.Host,
		"database", pcfg.ConnConfig.Database,
		"max_conns", pcfg.MaxConns,
	)

	return &Database{pool: pool, db: stdlib.OpenDBFromPool(pool)}, nil
}

// New wraps an existing *sql.DB. Used by tests (sqlmock) and tools that
// already own a connection.
func New(db *sql.DB) *Database {
	return &Database{db: db}
}

// DB returns the database/sql handle for non-transactional queries.
func (d *Database) DB() *sql.DB {
	return d.db
}

// WithTx runs fn inside a transaction at the server default isolation
// (read committed on PostgreSQL). The transaction is committed when fn
// returns nil and rolled back otherwise, including when fn panics. Errors
// are passed through Classify so serialization failures surface as
// ErrSerialization.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", Classify(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", Classify(err), rbErr)
		}
		return Classify(err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", Classify(err))
	}
	return nil
}

// Version returns the server version string; used by the setup endpoint as a
// connectivity probe.
func (d *Database) Version(ctx context.Context) (string, error) {
	var v string
	if err := d.db.QueryRowContext(ctx, "SELECT version()").Scan(&v); err != nil {
		return "", fmt.Errorf("query version: %w", Classify(err))
	}
	return v, nil
}

// Ping checks the database connection health.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping: %w", Classify(err))
	}
	return nil
}

// Close releases the sql.DB view and the underlying pool.
func (d *Database) Close() {
	if d.db != nil {
		_ = d.db.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
}
