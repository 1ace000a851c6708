package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/store"
	"github.com/MKhiriev/vaultscribe/models"
)

// ValidateSession implements AuthService. Expired sessions are rejected even
// though their rows persist until logout or purge.
func (a *authService) ValidateSession(ctx context.Context, token string) (models.Account, error) {
	if token == "" {
		return models.Account{}, ErrNoValidSession
	}

	account, err := a.sessions.FindValid(ctx, token, a.now())
	if errors.Is(err, store.ErrSessionNotFound) {
		return models.Account{}, ErrNoValidSession
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("session lookup failed")
		return models.Account{}, fmt.Errorf("session lookup failed: %w", err)
	}

	return account, nil
}

// Logout implements AuthService.
func (a *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrNoValidSession
	}

	err := a.sessions.Delete(ctx, token)
	if errors.Is(err, store.ErrSessionNotFound) {
		return ErrNoValidSession
	}
	if err != nil {
		return fmt.Errorf("session deletion failed: %w", err)
	}

	return nil
}

// PurgeExpiredSessions implements AuthService.
func (a *authService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := a.sessions.DeleteExpired(ctx, a.now())
	if err != nil {
		return 0, fmt.Errorf("purging expired sessions failed: %w", err)
	}

	logger.FromContext(ctx).Info().Int64("deleted", n).Msg("expired sessions purged")
	return n, nil
}
