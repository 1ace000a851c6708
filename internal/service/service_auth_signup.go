package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/store"
	"github.com/MKhiriev/vaultscribe/models"
)

// BeginSignup implements AuthService.
func (a *authService) BeginSignup(ctx context.Context, email, password string) (models.PendingEnrollment, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, models.CredentialsRequest{Email: email, Password: password}); err != nil {
		return models.PendingEnrollment{}, err
	}

	_, err := a.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return models.PendingEnrollment{}, ErrDuplicateAccount
	case !errors.Is(err, store.ErrAccountNotFound):
		log.Err(err).Msg("account lookup failed")
		return models.PendingEnrollment{}, fmt.Errorf("account lookup failed: %w", err)
	}

	secret, err := a.verifier.GenerateSecret()
	if err != nil {
		return models.PendingEnrollment{}, fmt.Errorf("%w: %w", ErrEnrollmentFailed, err)
	}

	uri, err := a.verifier.ProvisioningURI(secret, email, a.issuer)
	if err != nil {
		return models.PendingEnrollment{}, fmt.Errorf("%w: %w", ErrEnrollmentFailed, err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return models.PendingEnrollment{}, fmt.Errorf("hash password: %w", err)
	}

	var imagePath string
	if a.imageDir != "" && a.images != nil {
		name := fmt.Sprintf("totp_qr_%s.png", a.ids.Generate())
		imagePath, err = a.images.WriteImage(uri, filepath.Join(a.imageDir, name))
		if err != nil {
			log.Err(err).Msg("failed to write enrollment image")
			return models.PendingEnrollment{}, fmt.Errorf("%w: %w", ErrEnrollmentFailed, err)
		}
	}

	pending := models.PendingEnrollment{
		Email:           email,
		PasswordHash:    hash,
		TOTPSecret:      secret,
		ProvisioningURI: uri,
		ImagePath:       imagePath,
		ExpiresAt:       a.now().Add(a.codec.ttl),
	}

	pending.Ticket, err = a.codec.seal(pending)
	if err != nil {
		return models.PendingEnrollment{}, fmt.Errorf("%w: %w", ErrEnrollmentFailed, err)
	}

	return pending, nil
}

// CompleteSignup implements AuthService. Only the sealed ticket of pending
// is trusted.
func (a *authService) CompleteSignup(ctx context.Context, pending models.PendingEnrollment, code string) (models.Account, error) {
	log := logger.FromContext(ctx)

	var enrollment models.PendingEnrollment
	if err := a.codec.open(pending.Ticket, &enrollment); err != nil {
		log.Info().Err(err).Msg("enrollment ticket rejected")
		return models.Account{}, err
	}
	if !a.now().Before(enrollment.ExpiresAt) {
		removeEnrollmentImage(log, enrollment.ImagePath)
		return models.Account{}, ErrChallengeExpired
	}

	if !a.verifier.Verify(enrollment.TOTPSecret, code, a.totpWindow) {
		return models.Account{}, ErrInvalidSecondFactorCode
	}

	account, err := a.accounts.Insert(ctx, enrollment.Email, enrollment.PasswordHash, enrollment.TOTPSecret)
	if err != nil {
		log.Err(err).Msg("account creation failed")
		if errors.Is(err, ErrDuplicateAccount) {
			removeEnrollmentImage(log, enrollment.ImagePath)
		}
		return models.Account{}, fmt.Errorf("account creation failed: %w", err)
	}

	removeEnrollmentImage(log, enrollment.ImagePath)

	log.Info().Int64("account_id", account.ID).Msg("account created")
	return account, nil
}

// removeEnrollmentImage deletes the QR image of an enrollment that can no
// longer complete. The image encodes the TOTP secret.
func removeEnrollmentImage(log *logger.Logger, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("path", path).Msg("failed to remove enrollment image")
	}
}
