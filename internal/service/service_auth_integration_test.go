// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/vaultscribe/internal/config"
	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/otp"
	"github.com/MKhiriev/vaultscribe/internal/store"
	"github.com/MKhiriev/vaultscribe/models"
)

// newSQLiteAuthSvc wires a real authService over a temporary SQLite file.
func newSQLiteAuthSvc(t *testing.T) (*authService, *store.Storages) {
	t.Helper()

	dir := t.TempDir()
	cfg := testConfig()
	cfg.Auth.EnrollmentImageDir = filepath.Join(dir, "assets")
	cfg.Storage = config.Storage{DB: config.DB{
		Driver:       config.DriverSQLite,
		DSN:          filepath.Join(dir, "vaultscribe.db"),
		QueryTimeout: 5 * time.Second,
		MaxRetries:   3,
	}}

	storages, err := store.NewStorages(context.Background(), cfg.Storage, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { storages.Close() })

	svc, err := NewAuthService(storages, cfg, logger.Nop())
	require.NoError(t, err)

	return svc.(*authService), storages
}

func currentCode(t *testing.T, secret string) string {
	t.Helper()
	code, err := otp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	return code
}

func signup(t *testing.T, svc *authService, email, password string) models.PendingEnrollment {
	t.Helper()

	pending, err := svc.BeginSignup(context.Background(), email, password)
	require.NoError(t, err)

	_, err = svc.CompleteSignup(context.Background(), pending, currentCode(t, pending.TOTPSecret))
	require.NoError(t, err)
	return pending
}

func TestAuthService_EndToEnd_SQLite(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSQLiteAuthSvc(t)

	pending, err := svc.BeginSignup(ctx, "a@b.com", "Abcd1234!")
	require.NoError(t, err)
	require.FileExists(t, pending.ImagePath)
	assert.Contains(t, pending.ProvisioningURI, "otpauth://totp/")
	assert.Contains(t, pending.ProvisioningURI, "issuer=VaultScribe")

	_, err = svc.BeginLogin(ctx, "a@b.com", "Abcd1234!")
	require.ErrorIs(t, err, ErrInvalidCredentials, "nothing is persisted before enrollment completes")

	account, err := svc.CompleteSignup(ctx, pending, currentCode(t, pending.TOTPSecret))
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", account.Email)
	assert.NoFileExists(t, pending.ImagePath)

	require.NoError(t, svc.VerifyPassword(ctx, "a@b.com", "Abcd1234!"))
	require.ErrorIs(t, svc.VerifyPassword(ctx, "a@b.com", "Abcd1234?"), ErrInvalidCredentials)

	challenge, err := svc.BeginLogin(ctx, "a@b.com", "Abcd1234!")
	require.NoError(t, err)

	session, err := svc.CompleteLogin(ctx, challenge, currentCode(t, pending.TOTPSecret))
	require.NoError(t, err)

	current, err := svc.ValidateSession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", current.Email)

	require.NoError(t, svc.Logout(ctx, session.Token))
	_, err = svc.ValidateSession(ctx, session.Token)
	assert.ErrorIs(t, err, ErrNoValidSession)
}

func TestAuthService_ConcurrentDuplicateSignup_SQLite(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSQLiteAuthSvc(t)

	first, err := svc.BeginSignup(ctx, "dup@b.com", "Abcd1234!")
	require.NoError(t, err)
	second, err := svc.BeginSignup(ctx, "dup@b.com", "Efgh5678!")
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, p := range []models.PendingEnrollment{first, second} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := otp.GenerateCode(p.TOTPSecret, time.Now())
			if !assert.NoError(t, err) {
				return
			}
			_, err = svc.CompleteSignup(ctx, p, code)
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}()
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ErrDuplicateAccount):
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, dup)
}

func TestAuthService_ExpiredSession_SQLite(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSQLiteAuthSvc(t)

	pending := signup(t, svc, "exp@b.com", "Abcd1234!")

	svc.sessionTTL = -time.Second
	challenge, err := svc.BeginLogin(ctx, "exp@b.com", "Abcd1234!")
	require.NoError(t, err)
	session, err := svc.CompleteLogin(ctx, challenge, currentCode(t, pending.TOTPSecret))
	require.NoError(t, err)

	_, err = svc.ValidateSession(ctx, session.Token)
	require.ErrorIs(t, err, ErrNoValidSession)

	// the row is still there until purged
	n, err := svc.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAuthService_LegacyBcryptMigration_SQLite(t *testing.T) {
	ctx := context.Background()
	svc, storages := newSQLiteAuthSvc(t)

	legacyHash, err := bcrypt.GenerateFromPassword([]byte("Legacy123!"), bcrypt.MinCost)
	require.NoError(t, err)
	secret, err := svc.verifier.GenerateSecret()
	require.NoError(t, err)

	_, err = storages.AccountRepository.Insert(ctx, "old@b.com", string(legacyHash), secret)
	require.NoError(t, err)

	_, err = svc.BeginLogin(ctx, "old@b.com", "Legacy123!")
	require.NoError(t, err)

	upgraded, err := storages.AccountRepository.FindByEmail(ctx, "old@b.com")
	require.NoError(t, err)
	assert.Regexp(t, `^\$argon2id\$v=19\$`, upgraded.PasswordHash)

	require.NoError(t, svc.VerifyPassword(ctx, "old@b.com", "Legacy123!"))
}

func TestAuthService_PasswordReset_SQLite(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSQLiteAuthSvc(t)

	pending := signup(t, svc, "reset@b.com", "Abcd1234!")

	challenge, err := svc.BeginReset(ctx, "reset@b.com")
	require.NoError(t, err)
	grant, err := svc.VerifyReset(ctx, challenge, currentCode(t, pending.TOTPSecret))
	require.NoError(t, err)
	require.NoError(t, svc.CompleteReset(ctx, grant, "Newpass99#"))

	require.ErrorIs(t, svc.VerifyPassword(ctx, "reset@b.com", "Abcd1234!"), ErrInvalidCredentials)
	require.NoError(t, svc.VerifyPassword(ctx, "reset@b.com", "Newpass99#"))
}

func TestAuthService_PasswordStrength(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSQLiteAuthSvc(t)

	tests := []struct {
		password string
		wantErr  error
	}{
		{"abc", ErrWeakPassword},
		{"alllowercase1!", ErrWeakPassword},
		{"NoDigits!", ErrWeakPassword},
		{"NoSymbol123", ErrWeakPassword},
		{"Abcd1234!", nil},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			pending, err := svc.BeginSignup(ctx, "strength@b.com", tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			_ = os.Remove(pending.ImagePath)
		})
	}
}
