package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/vaultscribe/internal/config"
	"github.com/MKhiriev/vaultscribe/internal/crypto"
	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/otp"
	"github.com/MKhiriev/vaultscribe/internal/store"
	"github.com/MKhiriev/vaultscribe/internal/utils"
	"github.com/MKhiriev/vaultscribe/internal/validators"
	"github.com/MKhiriev/vaultscribe/models"
)

// authService is the concrete implementation of AuthService.
type authService struct {
	accounts store.AccountRepository
	sessions store.SessionRepository

	hasher    crypto.PasswordHasher
	legacy    crypto.LegacyVerifier
	verifier  otp.Verifier
	images    otp.ImageWriter
	validator validators.Validator
	codec     *challengeCodec
	ids       *utils.UUIDGenerator

	// issuer is shown by authenticator apps next to the account email.
	issuer     string
	sessionTTL time.Duration
	totpWindow uint

	// imageDir receives enrollment QR images. Empty disables them.
	imageDir string

	// dummyHash is verified against for unknown emails.
	dummyHash     string
	dummyHashOnce sync.Once

	grants *grantLedger

	now    func() time.Time
	logger *logger.Logger
}

// NewAuthService constructs an AuthService over the given repositories with
// the hashing, second-factor and challenge settings from cfg.
//
// The returned service is safe for concurrent use.
func NewAuthService(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) (AuthService, error) {
	codec, err := newChallengeCodec(cfg.App, cfg.Auth.Issuer)
	if err != nil {
		return nil, fmt.Errorf("build challenge codec: %w", err)
	}

	window := cfg.Auth.TOTPWindow
	if window == 0 {
		window = 1
	}

	return &authService{
		accounts:   storages.AccountRepository,
		sessions:   storages.SessionRepository,
		hasher:     crypto.NewPasswordHasher(cfg.Auth.Argon),
		legacy:     crypto.NewLegacyVerifier(),
		verifier:   otp.NewVerifier(),
		images:     otp.NewImageWriter(),
		validator:  validators.NewCredentialsValidator(),
		codec:      codec,
		ids:        utils.NewUUIDGenerator(),
		issuer:     cfg.Auth.Issuer,
		sessionTTL: cfg.Auth.SessionTTL,
		totpWindow: window,
		imageDir:   cfg.Auth.EnrollmentImageDir,
		grants:     newGrantLedger(),
		now:        time.Now,
		logger:     logger,
	}, nil
}

// BeginLogin implements AuthService.
func (a *authService) BeginLogin(ctx context.Context, email, password string) (models.LoginChallenge, error) {
	log := logger.FromContext(ctx)

	account, err := a.authenticate(ctx, email, password)
	if err != nil {
		return models.LoginChallenge{}, err
	}

	if !account.HasSecondFactor() {
		log.Warn().Int64("account_id", account.ID).Msg("login for account without second factor")
		return models.LoginChallenge{}, ErrSecondFactorNotConfigured
	}

	token, expiresAt, err := a.codec.issue(purposeLogin, account.ID, account.Email)
	if err != nil {
		log.Err(err).Int64("account_id", account.ID).Msg("failed to issue login challenge")
		return models.LoginChallenge{}, fmt.Errorf("issue login challenge: %w", err)
	}

	return models.LoginChallenge{
		AccountID: account.ID,
		Email:     account.Email,
		ExpiresAt: expiresAt,
		Token:     token,
	}, nil
}

// CompleteLogin implements AuthService.
func (a *authService) CompleteLogin(ctx context.Context, challenge models.LoginChallenge, code string) (models.Session, error) {
	log := logger.FromContext(ctx)

	account, err := a.accountForChallenge(ctx, challenge.Token, purposeLogin)
	if err != nil {
		return models.Session{}, err
	}

	if !a.verifier.Verify(*account.TOTPSecret, code, a.totpWindow) {
		log.Info().Int64("account_id", account.ID).Msg("second factor code rejected")
		return models.Session{}, ErrInvalidSecondFactorCode
	}

	token, err := crypto.GenerateSessionToken()
	if err != nil {
		return models.Session{}, err
	}

	session, err := a.sessions.Create(ctx, account.ID, token, a.now().Add(a.sessionTTL))
	if err != nil {
		log.Err(err).Int64("account_id", account.ID).Msg("session creation failed")
		return models.Session{}, fmt.Errorf("session creation failed: %w", err)
	}

	log.Info().Int64("account_id", account.ID).Time("expires_at", session.ExpiresAt).Msg("session issued")
	return session, nil
}

// VerifyPassword implements AuthService.
func (a *authService) VerifyPassword(ctx context.Context, email, password string) error {
	_, err := a.authenticate(ctx, email, password)
	return err
}

// authenticate finds the account for email and checks password against it.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (a *authService) authenticate(ctx context.Context, email, password string) (models.Account, error) {
	log := logger.FromContext(ctx)

	account, err := a.accounts.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrAccountNotFound) {
		a.burnVerification(password)
		return models.Account{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Msg("account lookup failed")
		return models.Account{}, fmt.Errorf("account lookup failed: %w", err)
	}

	ok, err := a.checkPassword(ctx, account, password)
	if err != nil {
		return models.Account{}, err
	}
	if !ok {
		log.Info().Int64("account_id", account.ID).Msg("wrong password")
		return models.Account{}, ErrInvalidCredentials
	}

	return account, nil
}

// checkPassword verifies password against the stored hash. Legacy bcrypt
// hashes and argon2id hashes with outdated parameters are replaced after a
// successful match. Hashes in any other format never match.
func (a *authService) checkPassword(ctx context.Context, account models.Account, password string) (bool, error) {
	log := logger.FromContext(ctx)

	ok, err := a.hasher.Verify(account.PasswordHash, password)
	switch {
	case err == nil:
		if ok && a.hasher.NeedsRehash(account.PasswordHash) {
			a.rehash(ctx, account, password)
		}
		return ok, nil

	case errors.Is(err, crypto.ErrUnrecognizedHashFormat):
		if !a.legacy.Recognizes(account.PasswordHash) {
			log.Error().Int64("account_id", account.ID).Msg("password hash has unknown format, manual migration required")
			return false, nil
		}

		ok, err = a.legacy.Verify(account.PasswordHash, password)
		if err != nil {
			log.Err(err).Int64("account_id", account.ID).Msg("legacy password hash is malformed")
			return false, nil
		}
		if ok {
			a.rehash(ctx, account, password)
		}
		return ok, nil

	default:
		log.Err(err).Int64("account_id", account.ID).Msg("password verification failed")
		return false, fmt.Errorf("password verification failed: %w", err)
	}
}

// rehash stores a fresh hash of password. Failures are logged and leave the
// old hash in place; the login itself is not affected.
func (a *authService) rehash(ctx context.Context, account models.Account, password string) {
	log := logger.FromContext(ctx)

	newHash, err := a.hasher.Hash(password)
	if err != nil {
		log.Err(err).Int64("account_id", account.ID).Msg("rehash failed")
		return
	}

	if err := a.accounts.UpdatePasswordHash(ctx, account.Email, newHash); err != nil {
		log.Err(err).Int64("account_id", account.ID).Msg("storing upgraded password hash failed")
		return
	}

	log.Info().Int64("account_id", account.ID).Msg("password hash upgraded")
}

// burnVerification spends one hash verification so unknown emails take as
// long as wrong passwords.
func (a *authService) burnVerification(password string) {
	a.dummyHashOnce.Do(func() {
		h, err := a.hasher.Hash("vaultscribe-dummy-password")
		if err == nil {
			a.dummyHash = h
		}
	})
	if a.dummyHash != "" {
		_, _ = a.hasher.Verify(a.dummyHash, password)
	}
}

// accountForChallenge parses a signed challenge and re-reads the account it
// names. The account must still exist under the same id and have a secret.
func (a *authService) accountForChallenge(ctx context.Context, token, purpose string) (models.Account, error) {
	log := logger.FromContext(ctx)

	claims, accountID, err := a.codec.parse(token, purpose)
	if err != nil {
		log.Info().Err(err).Str("purpose", purpose).Msg("challenge rejected")
		return models.Account{}, err
	}

	account, err := a.accounts.FindByEmail(ctx, claims.Email)
	if errors.Is(err, store.ErrAccountNotFound) {
		return models.Account{}, ErrInvalidChallenge
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("account lookup failed: %w", err)
	}
	if account.ID != accountID {
		log.Warn().Int64("account_id", account.ID).Int64("challenge_account_id", accountID).Msg("challenge account mismatch")
		return models.Account{}, ErrInvalidChallenge
	}
	if !account.HasSecondFactor() {
		return models.Account{}, ErrSecondFactorNotConfigured
	}

	return account, nil
}
