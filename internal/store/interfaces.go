package store

import (
	"context"
	"time"

	"github.com/MKhiriev/vaultscribe/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// AccountRepository persists accounts. Every method is a single statement
// committed immediately.
type AccountRepository interface {
	// EnsureSchema creates or upgrades the schema. Safe to call on every
	// startup.
	EnsureSchema(ctx context.Context) error

	// FindByEmail returns [ErrAccountNotFound] when no account has email.
	FindByEmail(ctx context.Context, email string) (models.Account, error)

	// Insert creates an account and returns it with its assigned ID.
	// Returns [ErrDuplicateAccount] when email is taken.
	Insert(ctx context.Context, email, passwordHash, totpSecret string) (models.Account, error)

	// UpdatePasswordHash returns [ErrAccountNotFound] when no row changed.
	UpdatePasswordHash(ctx context.Context, email, newHash string) error

	// List returns every account ordered by ID.
	List(ctx context.Context) ([]models.Account, error)
}

// SessionRepository persists bearer sessions.
type SessionRepository interface {
	// Create stores a session for accountID.
	Create(ctx context.Context, accountID int64, token string, expiresAt time.Time) (models.Session, error)

	// FindValid returns the account owning token if the session expires
	// after now. Expired and unknown tokens both yield [ErrSessionNotFound].
	FindValid(ctx context.Context, token string, now time.Time) (models.Account, error)

	// Delete removes the session with token. Returns [ErrSessionNotFound]
	// when nothing was deleted.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes sessions whose expiry is at or before now and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
