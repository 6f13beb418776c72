// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists arXiv metadata, extracted paper content, and the
// append-only extraction status log in SQLite or PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// DefaultSQLitePath is used when no DSN is configured.
const DefaultSQLitePath = "arxiv.db"

// Store owns the database handle. Its embedded Queries run outside any
// transaction; WithinTx hands out transaction-scoped Queries.
type Store struct {
	*Queries
	db *sql.DB
}

// Open connects with cfg and creates the schema if it does not exist.
// SQLite databases use a single connection with synchronous writes off,
// trading durability on power loss for bulk-write speed.
func Open(ctx context.Context, cfg types.StoreConfig) (*Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = types.DriverSQLite
	}

	dsn := cfg.DSN
	switch driver {
	case types.DriverSQLite:
		if dsn == "" {
			dsn = DefaultSQLitePath
		}
		dsn = withParams(dsn, "_journal_mode=WAL&_foreign_keys=on&_synchronous=OFF&_busy_timeout=5000")
	case types.DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("driver %s requires a dsn", driver)
		}
	default:
		return nil, fmt.Errorf("unsupported store driver %q (want %s or %s)", driver, types.DriverSQLite, types.DriverPostgres)
	}

	db, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, types.WrapError(types.ErrDB, "opening database", err)
	}
	if driver == types.DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	s := New(db, driver)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open handle without touching the schema.
func New(db *sql.DB, driver types.StoreDriver) *Store {
	return &Store{
		Queries: &Queries{q: db, dialect: dialectFor(driver)},
		db:      db,
	}
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithinTx runs fn in a transaction, committing when fn returns nil and
// rolling back otherwise.
func (s *Store) WithinTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.WrapError(types.ErrDB, "beginning transaction", err)
	}

	if err := fn(&Queries{q: tx, dialect: s.dialect}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return types.WrapError(types.ErrDB, "committing transaction", err)
	}
	return nil
}

// Migrate creates every table and index that does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return types.WrapError(types.ErrDB, "executing schema statement", err)
		}
	}
	return nil
}

func withParams(dsn, params string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}
