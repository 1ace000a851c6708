package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/store"
	"github.com/MKhiriev/vaultscribe/models"
)

// BeginReset implements AuthService.
func (a *authService) BeginReset(ctx context.Context, email string) (models.ResetChallenge, error) {
	log := logger.FromContext(ctx)

	account, err := a.accounts.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrAccountNotFound) {
		return models.ResetChallenge{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Msg("account lookup failed")
		return models.ResetChallenge{}, fmt.Errorf("account lookup failed: %w", err)
	}
	if !account.HasSecondFactor() {
		return models.ResetChallenge{}, ErrSecondFactorNotConfigured
	}

	token, expiresAt, err := a.codec.issue(purposeReset, account.ID, account.Email)
	if err != nil {
		return models.ResetChallenge{}, fmt.Errorf("issue reset challenge: %w", err)
	}

	return models.ResetChallenge{
		AccountID: account.ID,
		Email:     account.Email,
		ExpiresAt: expiresAt,
		Token:     token,
	}, nil
}

// VerifyReset implements AuthService.
func (a *authService) VerifyReset(ctx context.Context, challenge models.ResetChallenge, code string) (models.ResetGrant, error) {
	log := logger.FromContext(ctx)

	account, err := a.accountForChallenge(ctx, challenge.Token, purposeReset)
	if err != nil {
		return models.ResetGrant{}, err
	}

	if !a.verifier.Verify(*account.TOTPSecret, code, a.totpWindow) {
		log.Info().Int64("account_id", account.ID).Msg("reset code rejected")
		return models.ResetGrant{}, ErrInvalidSecondFactorCode
	}

	token, expiresAt, err := a.codec.issue(purposeResetGrant, account.ID, account.Email)
	if err != nil {
		return models.ResetGrant{}, fmt.Errorf("issue reset grant: %w", err)
	}

	return models.ResetGrant{
		AccountID: account.ID,
		Email:     account.Email,
		ExpiresAt: expiresAt,
		Token:     token,
	}, nil
}

// CompleteReset implements AuthService. A grant is consumed by the first
// successful password update.
func (a *authService) CompleteReset(ctx context.Context, grant models.ResetGrant, newPassword string) error {
	log := logger.FromContext(ctx)

	claims, accountID, err := a.codec.parse(grant.Token, purposeResetGrant)
	if err != nil {
		return err
	}
	if a.grants.used(claims.ID) {
		return ErrGrantAlreadyUsed
	}

	if err := a.validator.Validate(ctx, models.ResetCompleteRequest{NewPassword: newPassword}); err != nil {
		return err
	}

	hash, err := a.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if !a.grants.consume(claims.ID, claims.ExpiresAt.Time) {
		return ErrGrantAlreadyUsed
	}

	if err := a.accounts.UpdatePasswordHash(ctx, claims.Email, hash); err != nil {
		a.grants.release(claims.ID)
		log.Err(err).Int64("account_id", accountID).Msg("password update failed")
		if errors.Is(err, store.ErrAccountNotFound) {
			return ErrInvalidChallenge
		}
		return fmt.Errorf("password update failed: %w", err)
	}

	log.Info().Int64("account_id", accountID).Msg("password reset")
	return nil
}

// grantLedger remembers consumed reset grants until they expire.
type grantLedger struct {
	mu    sync.Mutex
	spent map[string]time.Time
	now   func() time.Time
}

func newGrantLedger() *grantLedger {
	return &grantLedger{spent: make(map[string]time.Time), now: time.Now}
}

func (l *grantLedger) used(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.spent[id]
	return ok
}

// consume marks id spent. Returns false if it already was.
func (l *grantLedger) consume(id string, expiresAt time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, exp := range l.spent {
		if !exp.After(now) {
			delete(l.spent, k)
		}
	}

	if _, ok := l.spent[id]; ok {
		return false
	}
	l.spent[id] = expiresAt
	return true
}

func (l *grantLedger) release(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.spent, id)
}
