// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package migrations owns the relational schema. SQL migrations are embedded
// per dialect; SQLite additionally runs a Go migration that upgrades account
// tables created before the second factor existed.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// Driver names accepted by [Migrate]; they match the database/sql driver
// names used to open the connection.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

var (
	ErrNilDB             = errors.New("migration error: db is nil")
	ErrUnsupportedDriver = errors.New("migration error: unsupported driver")
)

//go:embed sqlite/*.sql postgres/*.sql
var embedMigrations embed.FS

// Migrate brings the schema up to date. It is idempotent and safe to call on
// every startup.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	provider, err := NewProvider(db, driver)
	if err != nil {
		return err
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}

// NewProvider builds the goose provider for driver. Exposed for tooling
// that needs status or down migrations.
func NewProvider(db *sql.DB, driver string) (*goose.Provider, error) {
	if db == nil {
		return nil, ErrNilDB
	}

	var (
		dialect goose.Dialect
		dir     string
		opts    []goose.ProviderOption
	)

	switch driver {
	case DriverSQLite:
		dialect, dir = goose.DialectSQLite3, "sqlite"
		opts = append(opts, goose.WithGoMigrations(addTOTPSecretSQLite()))
	case DriverPostgres:
		dialect, dir = goose.DialectPostgres, "postgres"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	fsys, err := fs.Sub(embedMigrations, dir)
	if err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys, opts...)
	if err != nil {
		return nil, fmt.Errorf("migration error creating provider: %w", err)
	}

	return provider, nil
}
