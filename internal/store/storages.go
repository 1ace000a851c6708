package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/vaultscribe/internal/config"
	"github.com/MKhiriev/vaultscribe/internal/logger"
)

// Storages groups the repositories the service layer depends on together
// with the connection they share.
type Storages struct {
	AccountRepository AccountRepository
	SessionRepository SessionRepository

	db *DB
}

// NewStorages connects to the configured database, brings the schema up to
// date and wires the repositories.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Str("driver", cfg.DB.Driver).Msg("creating new storages...")

	db, err := NewConnect(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: database connection error: %w", ErrStoreUnavailable, err)
	}

	accounts := NewAccountRepository(db, logger)
	if err := accounts.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &Storages{
		AccountRepository: accounts,
		SessionRepository: NewSessionRepository(db, logger),
		db:                db,
	}, nil
}

// DB exposes the underlying connection for tooling such as the admin CLI.
func (s *Storages) DB() *DB {
	return s.db
}

// Close releases the database connection.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
