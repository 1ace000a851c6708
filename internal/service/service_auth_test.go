package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/vaultscribe/internal/config"
	"github.com/MKhiriev/vaultscribe/internal/crypto"
	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/mock"
	"github.com/MKhiriev/vaultscribe/internal/store"
	"github.com/MKhiriev/vaultscribe/internal/validators"
	"github.com/MKhiriev/vaultscribe/models"
)

const (
	testEmail    = "a@b.com"
	testPassword = "Abcd1234!"
	testHash     = "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$a2V5"
	testSecret   = "JBSWY3DPEHPK3PXP"
)

type authMocks struct {
	accounts  *mock.MockAccountRepository
	sessions  *mock.MockSessionRepository
	hasher    *mock.MockPasswordHasher
	legacy    *mock.MockLegacyVerifier
	verifier  *mock.MockVerifier
	images    *mock.MockImageWriter
	validator *mock.MockValidator
}

func testConfig() config.StructuredConfig {
	return config.StructuredConfig{
		App: config.App{
			ChallengeSignKey: "test-sign-key",
			ChallengeTTL:     5 * time.Minute,
		},
		Auth: config.Auth{
			Issuer:     "VaultScribe",
			SessionTTL: time.Hour,
			TOTPWindow: 1,
			Argon: config.Argon{
				Memory:      8 * 1024,
				Iterations:  1,
				Parallelism: 1,
				SaltLength:  16,
				KeyLength:   32,
			},
		},
	}
}

// newTestAuthSvc builds an authService whose collaborators are all mocks.
func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (*authService, authMocks) {
	t.Helper()

	m := authMocks{
		accounts:  mock.NewMockAccountRepository(ctrl),
		sessions:  mock.NewMockSessionRepository(ctrl),
		hasher:    mock.NewMockPasswordHasher(ctrl),
		legacy:    mock.NewMockLegacyVerifier(ctrl),
		verifier:  mock.NewMockVerifier(ctrl),
		images:    mock.NewMockImageWriter(ctrl),
		validator: mock.NewMockValidator(ctrl),
	}

	storages := &store.Storages{AccountRepository: m.accounts, SessionRepository: m.sessions}
	svc, err := NewAuthService(storages, testConfig(), logger.Nop())
	require.NoError(t, err)

	a := svc.(*authService)
	a.hasher = m.hasher
	a.legacy = m.legacy
	a.verifier = m.verifier
	a.images = m.images
	a.validator = m.validator

	return a, m
}

func enrolledAccount() models.Account {
	secret := testSecret
	return models.Account{ID: 7, Email: testEmail, PasswordHash: testHash, TOTPSecret: &secret}
}

// ── BeginLogin ───────────────────────────────────────────────────────────────

func TestAuthService_BeginLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		m.accounts.EXPECT().FindByEmail(ctx, testEmail).Return(enrolledAccount(), nil),
		m.hasher.EXPECT().Verify(testHash, testPassword).Return(true, nil),
		m.hasher.EXPECT().NeedsRehash(testHash).Return(false),
	)

	challenge, err := svc.BeginLogin(ctx, testEmail, testPassword)
	require.NoError(t, err)
	assert.Equal(t, int64(7), challenge.AccountID)
	assert.Equal(t, testEmail, challenge.Email)
	assert.NotEmpty(t, challenge.Token)
	assert.True(t, challenge.ExpiresAt.After(time.Now()))
}

func TestAuthService_BeginLogin_UnknownEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	m.accounts.EXPECT().FindByEmail(ctx, "nobody@b.com").Return(models.Account{}, store.ErrAccountNotFound)
	m.hasher.EXPECT().Hash(gomock.Any()).Return(testHash, nil)
	m.hasher.EXPECT().Verify(testHash, testPassword).Return(false, nil)

	_, err := svc.BeginLogin(ctx, "nobody@b.com", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_BeginLogin_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	m.accounts.EXPECT().FindByEmail(ctx, testEmail).Return(enrolledAccount(), nil)
	m.hasher.EXPECT().Verify(testHash, "Wrong1234!").Return(false, nil)

	_, err := svc.BeginLogin(ctx, testEmail, "Wrong1234!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_BeginLogin_NoSecondFactor(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	account := enrolledAccount()
	account.TOTPSecret = nil

	m.accounts.EXPECT().FindByEmail(ctx, testEmail).Return(account, nil)
	m.hasher.EXPECT().Verify(testHash, testPassword).Return(true, nil)
	m.hasher.EXPECT().NeedsRehash(testHash).Return(false)

	_, err := svc.BeginLogin(ctx, testEmail, testPassword)
	assert.ErrorIs(t, err, ErrSecondFactorNotConfigured)
}

func TestAuthService_BeginLogin_StoreUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	m.accounts.EXPECT().FindByEmail(ctx, testEmail).
		Return(models.Account{}, errors.Join(store.ErrStoreUnavailable, errors.New("disk I/O error")))

	_, err := svc.BeginLogin(ctx, testEmail, testPassword)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_BeginLogin_LegacyHashIsUpgraded(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	account := enrolledAccount()
	account.PasswordHash = "$2a$10$legacy"

	gomock.InOrder(
		m.accounts.EXPECT().FindByEmail(ctx, testEmail).Return(account, nil),
		m.hasher.EXPECT().Verify("$2a$10$legacy", testPassword).Return(false, crypto.ErrUnrecognizedHashFormat),
		m.legacy.EXPECT().Recognizes("$2a$10$legacy").Return(true),
		m.legacy.EXPECT().Verify("$2a$10$legacy", testPassword).Return(true, nil),
		m.hasher.EXPECT().Hash(testPassword).Return(testHash, nil),
		m.accounts.EXPECT().UpdatePasswordHash(ctx, testEmail, testHash).Return(nil),
	)

	_, err := svc.BeginLogin(ctx, testEmail, testPassword)
	require.NoError(t, err)
}

func TestAuthService_BeginLogin_UnknownHashFormatFailsClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	account := enrolledAccount()
	account.PasswordHash = testPassword // stored in plaintext by an ancient version

	m.accounts.EXPECT().FindByEmail(ctx, testEmail).Return(account, nil)
	m.hasher.EXPECT().Verify(testPassword, testPassword).Return(false, crypto.ErrUnrecognizedHashFormat)
	m.legacy.EXPECT().Recognizes(testPassword).Return(false)

	_, err := svc.BeginLogin(ctx, testEmail, testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_BeginLogin_WeakParamsAreRehashed(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	m.accounts.EXPECT().FindByEmail(ctx, testEmail).Return(enrolledAccount(), nil)
	m.hasher.EXPECT().Verify(testHash, testPassword).Return(true, nil)
	m.hasher.EXPECT().NeedsRehash(testHash).Return(true)
	m.hasher.EXPECT().Hash(testPassword).Return("$argon2id$stronger", nil)
	m.accounts.EXPECT().UpdatePasswordHash(ctx, testEmail, "$argon2id$stronger").Return(store.ErrStoreUnavailable)

	// a failed upgrade does not fail the login
	_, err := svc.BeginLogin(ctx, testEmail, testPassword)
	require.NoError(t, err)
}

// ── CompleteLogin ────────────────────────────────────────────────────────────

func beginLogin(t *testing.T, svc *authService, m authMocks) models.LoginChallenge {
	t.Helper()

	m.accounts.EXPECT().FindByEmail(gomock.Any(), testEmail).Return(enrolledAccount(), nil)
	m.hasher.EXPECT().Verify(testHash, testPassword).Return(true, nil)
	m.hasher.EXPECT().NeedsRehash(testHash).Return(false)

	challenge, err := svc.BeginLogin(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	return challenge
}

func TestAuthService_CompleteLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	challenge := beginLogin(t, svc, m)

	m.accounts.EXPECT().FindByEmail(ctx, testEmail).Return(enrolledAccount(), nil)
	m.verifier.EXPECT().Verify(testSecret, "123456", uint(1)).Return(true)
	m.sessions.EXPECT().Create(ctx, int64(7), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, accountID int64, token string, expiresAt time.Time) (models.Session, error) {
			assert.Len(t, token, 43)
			assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)
			return models.Session{ID: 1, AccountID: accountID, Token: token, ExpiresAt: expiresAt}, nil
		},
	)

	session, err := svc.CompleteLogin(ctx, challenge, "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, int64(7), session.AccountID)
}

func TestAuthService_CompleteLogin_WrongCodeKeepsChallengeUsable(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	challenge := beginLogin(t, svc, m)

	m.accounts.EXPECT().FindByEmail(ctx, testEmail).Return(enrolledAccount(), nil).Times(2)
	gomock.InOrder(
		m.verifier.EXPECT().Verify(testSecret, "000000", uint(1)).Return(false),
		m.verifier.EXPECT().Verify(testSecret, "123456", uint(1)).Return(true),
	)
	m.sessions.EXPECT().Create(ctx, int64(7), gomock.Any(), gomock.Any()).Return(models.Session{Token: "t"}, nil)

	_, err := svc.CompleteLogin(ctx, challenge, "000000")
	require.ErrorIs(t, err, ErrInvalidSecondFactorCode)

	_, err = svc.CompleteLogin(ctx, challenge, "123456")
	require.NoError(t, err)
}

func TestAuthService_CompleteLogin_ForgedChallenge(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	other, err := newChallengeCodec(config.App{ChallengeSignKey: "attacker", ChallengeTTL: time.Minute}, "VaultScribe")
	require.NoError(t, err)
	forgedToken, _, err := other.issue(purposeLogin, 7, testEmail)
	require.NoError(t, err)

	tests := []struct {
		name      string
		challenge models.LoginChallenge
	}{
		{"unsigned value", models.LoginChallenge{AccountID: 7, Email: testEmail, ExpiresAt: time.Now().Add(time.Hour)}},
		{"foreign key", models.LoginChallenge{Token: forgedToken}},
		{"garbage", models.LoginChallenge{Token: "x.y.z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CompleteLogin(ctx, tt.challenge, "123456")
			assert.ErrorIs(t, err, ErrInvalidChallenge)
		})
	}
}

func TestAuthService_CompleteLogin_ExpiredChallenge(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	svc.codec.ttl = -time.Minute

	challenge := beginLogin(t, svc, m)

	_, err := svc.CompleteLogin(context.Background(), challenge, "123456")
	assert.ErrorIs(t, err, ErrChallengeExpired)
}

func TestAuthService_CompleteLogin_RejectsResetChallenge(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	m.accounts.EXPECT().FindByEmail(ctx, testEmail).Return(enrolledAccount(), nil)
	reset, err := svc.BeginReset(ctx, testEmail)
	require.NoError(t, err)

	_, err = svc.CompleteLogin(ctx, models.LoginChallenge{Token: reset.Token}, "123456")
	assert.ErrorIs(t, err, ErrInvalidChallenge)
}

func TestAuthService_CompleteLogin_AccountReplaced(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	challenge := beginLogin(t, svc, m)

	replaced := enrolledAccount()
	replaced.ID = 8
	m.accounts.EXPECT().FindByEmail(ctx, testEmail).Return(replaced, nil)

	_, err := svc.CompleteLogin(ctx, challenge, "123456")
	assert.ErrorIs(t, err, ErrInvalidChallenge)
}

// ── Signup ───────────────────────────────────────────────────────────────────

func TestAuthService_BeginSignup_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"weak password", validators.ErrWeakPassword},
		{"bad email", validators.ErrInvalidEmailFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, m := newTestAuthSvc(t, ctrl)

			m.validator.EXPECT().Validate(gomock.Any(), models.CredentialsRequest{Email: testEmail, Password: "abc"}).Return(tt.err)

			_, err := svc.BeginSignup(context.Background(), testEmail, "abc")
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestAuthService_BeginSignup_DuplicateEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	m.validator.EXPECT().Validate(ctx, gomock.Any()).Return(nil)
	m.accounts.EXPECT().FindByEmail(ctx, testEmail).Return(enrolledAccount(), nil)

	_, err := svc.BeginSignup(ctx, testEmail, testPassword)
	assert.ErrorIs(t, err, ErrDuplicateAccount)
}

func expectSignup(svc *authService, m authMocks, imageDir string) {
	svc.imageDir = imageDir

	m.validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)
	m.accounts.EXPECT().FindByEmail(gomock.Any(), testEmail).Return(models.Account{}, store.ErrAccountNotFound)
	m.verifier.EXPECT().GenerateSecret().Return(testSecret, nil)
	m.verifier.EXPECT().ProvisioningURI(testSecret, testEmail, "VaultScribe").Return("otpauth://totp/x", nil)
	m.hasher.EXPECT().Hash(testPassword).Return(testHash, nil)
}

func TestAuthService_BeginSignup_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	expectSignup(svc, m, "assets")
	m.images.EXPECT().WriteImage("otpauth://totp/x", gomock.Any()).DoAndReturn(
		func(_, path string) (string, error) {
			assert.Regexp(t, `^assets/totp_qr_[0-9a-f-]{36}\.png$`, path)
			return path, nil
		},
	)

	pending, err := svc.BeginSignup(ctx, testEmail, testPassword)
	require.NoError(t, err)
	assert.Equal(t, testEmail, pending.Email)
	assert.Equal(t, testSecret, pending.TOTPSecret)
	assert.Equal(t, testHash, pending.PasswordHash)
	assert.Equal(t, "otpauth://totp/x", pending.ProvisioningURI)
	assert.NotEmpty(t, pending.ImagePath)
	assert.NotEmpty(t, pending.Ticket)
}

func TestAuthService_BeginSignup_ImageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)

	expectSignup(svc, m, "assets")
	m.images.EXPECT().WriteImage(gomock.Any(), gomock.Any()).Return("", errors.New("read-only file system"))

	_, err := svc.BeginSignup(context.Background(), testEmail, testPassword)
	assert.ErrorIs(t, err, ErrEnrollmentFailed)
}

func TestAuthService_CompleteSignup_UsesSealedValues(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	expectSignup(svc, m, "")
	pending, err := svc.BeginSignup(ctx, testEmail, testPassword)
	require.NoError(t, err)

	// tampering with the visible fields has no effect
	pending.TOTPSecret = "AAAAAAAAAAAAAAAA"
	pending.Email = "evil@b.com"

	m.verifier.EXPECT().Verify(testSecret, "123456", uint(1)).Return(true)
	m.accounts.EXPECT().Insert(ctx, testEmail, testHash, testSecret).Return(enrolledAccount(), nil)

	account, err := svc.CompleteSignup(ctx, pending, "123456")
	require.NoError(t, err)
	assert.Equal(t, testEmail, account.Email)
}

func TestAuthService_CompleteSignup_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("tampered ticket", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc, m := newTestAuthSvc(t, ctrl)
		expectSignup(svc, m, "")
		pending, err := svc.BeginSignup(ctx, testEmail, testPassword)
		require.NoError(t, err)

		pending.Ticket = pending.Ticket[:len(pending.Ticket)/2]
		_, err = svc.CompleteSignup(ctx, pending, "123456")
		assert.ErrorIs(t, err, ErrInvalidChallenge)
	})

	t.Run("expired", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc, m := newTestAuthSvc(t, ctrl)
		svc.codec.ttl = -time.Second
		expectSignup(svc, m, "")
		pending, err := svc.BeginSignup(ctx, testEmail, testPassword)
		require.NoError(t, err)

		_, err = svc.CompleteSignup(ctx, pending, "123456")
		assert.ErrorIs(t, err, ErrChallengeExpired)
	})

	t.Run("wrong code", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc, m := newTestAuthSvc(t, ctrl)
		expectSignup(svc, m, "")
		pending, err := svc.BeginSignup(ctx, testEmail, testPassword)
		require.NoError(t, err)

		m.verifier.EXPECT().Verify(testSecret, "999999", uint(1)).Return(false)
		_, err = svc.CompleteSignup(ctx, pending, "999999")
		assert.ErrorIs(t, err, ErrInvalidSecondFactorCode)
	})

	t.Run("duplicate on insert", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc, m := newTestAuthSvc(t, ctrl)
		expectSignup(svc, m, "")
		pending, err := svc.BeginSignup(ctx, testEmail, testPassword)
		require.NoError(t, err)

		m.verifier.EXPECT().Verify(testSecret, "123456", uint(1)).Return(true)
		m.accounts.EXPECT().Insert(ctx, testEmail, testHash, testSecret).Return(models.Account{}, store.ErrDuplicateAccount)
		_, err = svc.CompleteSignup(ctx, pending, "123456")
		assert.ErrorIs(t, err, ErrDuplicateAccount)
	})
}

func TestAuthService_CompleteSignup_EnrollmentImageCleanup(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		ttl       time.Duration
		code      string
		setup     func(m authMocks)
		wantErr   error
		wantImage bool
	}{
		{
			name: "removed after account is created",
			code: "123456",
			setup: func(m authMocks) {
				m.verifier.EXPECT().Verify(testSecret, "123456", uint(1)).Return(true)
				m.accounts.EXPECT().Insert(ctx, testEmail, testHash, testSecret).Return(enrolledAccount(), nil)
			},
		},
		{
			name: "removed when email was taken meanwhile",
			code: "123456",
			setup: func(m authMocks) {
				m.verifier.EXPECT().Verify(testSecret, "123456", uint(1)).Return(true)
				m.accounts.EXPECT().Insert(ctx, testEmail, testHash, testSecret).Return(models.Account{}, store.ErrDuplicateAccount)
			},
			wantErr: ErrDuplicateAccount,
		},
		{
			name:    "removed when ticket expired",
			ttl:     -time.Second,
			code:    "123456",
			wantErr: ErrChallengeExpired,
		},
		{
			name: "kept for another code attempt",
			code: "999999",
			setup: func(m authMocks) {
				m.verifier.EXPECT().Verify(testSecret, "999999", uint(1)).Return(false)
			},
			wantErr:   ErrInvalidSecondFactorCode,
			wantImage: true,
		},
		{
			name: "kept while the store is down",
			code: "123456",
			setup: func(m authMocks) {
				m.verifier.EXPECT().Verify(testSecret, "123456", uint(1)).Return(true)
				m.accounts.EXPECT().Insert(ctx, testEmail, testHash, testSecret).Return(models.Account{}, store.ErrStoreUnavailable)
			},
			wantErr:   ErrStoreUnavailable,
			wantImage: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, m := newTestAuthSvc(t, ctrl)
			if tt.ttl != 0 {
				svc.codec.ttl = tt.ttl
			}

			expectSignup(svc, m, t.TempDir())
			m.images.EXPECT().WriteImage(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_, path string) (string, error) {
					return path, os.WriteFile(path, []byte("png"), 0o600)
				},
			)
			pending, err := svc.BeginSignup(ctx, testEmail, testPassword)
			require.NoError(t, err)
			require.FileExists(t, pending.ImagePath)

			if tt.setup != nil {
				tt.setup(m)
			}
			_, err = svc.CompleteSignup(ctx, pending, tt.code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			if tt.wantImage {
				assert.FileExists(t, pending.ImagePath)
			} else {
				assert.NoFileExists(t, pending.ImagePath)
			}
		})
	}
}

// ── Reset ────────────────────────────────────────────────────────────────────

func TestAuthService_BeginReset(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc, m := newTestAuthSvc(t, ctrl)
		m.accounts.EXPECT().FindByEmail(ctx, testEmail).Return(models.Account{}, store.ErrAccountNotFound)

		_, err := svc.BeginReset(ctx, testEmail)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("no second factor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc, m := newTestAuthSvc(t, ctrl)
		account := enrolledAccount()
		account.TOTPSecret = nil
		m.accounts.EXPECT().FindByEmail(ctx, testEmail).Return(account, nil)

		_, err := svc.BeginReset(ctx, testEmail)
		assert.ErrorIs(t, err, ErrSecondFactorNotConfigured)
	})
}

func TestAuthService_ResetFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	m.accounts.EXPECT().FindByEmail(ctx, testEmail).Return(enrolledAccount(), nil).Times(2)
	challenge, err := svc.BeginReset(ctx, testEmail)
	require.NoError(t, err)

	m.verifier.EXPECT().Verify(testSecret, "000000", uint(1)).Return(false)
	_, err = svc.VerifyReset(ctx, challenge, "000000")
	require.ErrorIs(t, err, ErrInvalidSecondFactorCode)

	m.accounts.EXPECT().FindByEmail(ctx, testEmail).Return(enrolledAccount(), nil)
	m.verifier.EXPECT().Verify(testSecret, "123456", uint(1)).Return(true)
	grant, err := svc.VerifyReset(ctx, challenge, "123456")
	require.NoError(t, err)
	assert.Equal(t, testEmail, grant.Email)

	// a challenge is not a grant
	err = svc.CompleteReset(ctx, models.ResetGrant{Token: challenge.Token}, "NewPass123!")
	require.ErrorIs(t, err, ErrInvalidChallenge)

	m.validator.EXPECT().Validate(ctx, models.ResetCompleteRequest{NewPassword: "weak"}).Return(validators.ErrWeakPassword)
	err = svc.CompleteReset(ctx, grant, "weak")
	require.ErrorIs(t, err, ErrWeakPassword)

	m.validator.EXPECT().Validate(ctx, models.ResetCompleteRequest{NewPassword: "NewPass123!"}).Return(nil)
	m.hasher.EXPECT().Hash("NewPass123!").Return("$argon2id$new", nil)
	m.accounts.EXPECT().UpdatePasswordHash(ctx, testEmail, "$argon2id$new").Return(nil)
	require.NoError(t, svc.CompleteReset(ctx, grant, "NewPass123!"))

	err = svc.CompleteReset(ctx, grant, "NewPass123!")
	assert.ErrorIs(t, err, ErrGrantAlreadyUsed)
}

func TestAuthService_CompleteReset_FailedUpdateReleasesGrant(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	token, expiresAt, err := svc.codec.issue(purposeResetGrant, 7, testEmail)
	require.NoError(t, err)
	grant := models.ResetGrant{Token: token, ExpiresAt: expiresAt}

	m.validator.EXPECT().Validate(ctx, gomock.Any()).Return(nil).Times(2)
	m.hasher.EXPECT().Hash("NewPass123!").Return("$argon2id$new", nil).Times(2)
	gomock.InOrder(
		m.accounts.EXPECT().UpdatePasswordHash(ctx, testEmail, "$argon2id$new").Return(store.ErrStoreUnavailable),
		m.accounts.EXPECT().UpdatePasswordHash(ctx, testEmail, "$argon2id$new").Return(nil),
	)

	require.ErrorIs(t, svc.CompleteReset(ctx, grant, "NewPass123!"), ErrStoreUnavailable)
	require.NoError(t, svc.CompleteReset(ctx, grant, "NewPass123!"))
}

// ── Sessions ─────────────────────────────────────────────────────────────────

func TestAuthService_ValidateSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	now := time.Unix(1_700_000_000, 0)
	svc.now = func() time.Time { return now }

	_, err := svc.ValidateSession(ctx, "")
	require.ErrorIs(t, err, ErrNoValidSession)

	m.sessions.EXPECT().FindValid(ctx, "good", now).Return(enrolledAccount(), nil)
	account, err := svc.ValidateSession(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, testEmail, account.Email)

	m.sessions.EXPECT().FindValid(ctx, "expired", now).Return(models.Account{}, store.ErrSessionNotFound)
	_, err = svc.ValidateSession(ctx, "expired")
	require.ErrorIs(t, err, ErrNoValidSession)

	m.sessions.EXPECT().FindValid(ctx, "any", now).Return(models.Account{}, store.ErrStoreUnavailable)
	_, err = svc.ValidateSession(ctx, "any")
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestAuthService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	m.sessions.EXPECT().Delete(ctx, "tok").Return(nil)
	require.NoError(t, svc.Logout(ctx, "tok"))

	m.sessions.EXPECT().Delete(ctx, "tok").Return(store.ErrSessionNotFound)
	require.ErrorIs(t, svc.Logout(ctx, "tok"), ErrNoValidSession)

	require.ErrorIs(t, svc.Logout(ctx, ""), ErrNoValidSession)
}

func TestAuthService_PurgeExpiredSessions(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	now := time.Unix(1_700_000_000, 0)
	svc.now = func() time.Time { return now }

	m.sessions.EXPECT().DeleteExpired(ctx, now).Return(int64(3), nil)
	n, err := svc.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestAuthService_VerifyPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	m.accounts.EXPECT().FindByEmail(ctx, testEmail).Return(enrolledAccount(), nil).Times(2)
	m.hasher.EXPECT().Verify(testHash, testPassword).Return(true, nil)
	m.hasher.EXPECT().NeedsRehash(testHash).Return(false)
	m.hasher.EXPECT().Verify(testHash, "nope").Return(false, nil)

	require.NoError(t, svc.VerifyPassword(ctx, testEmail, testPassword))
	require.ErrorIs(t, svc.VerifyPassword(ctx, testEmail, "nope"), ErrInvalidCredentials)
}

func TestGrantLedger(t *testing.T) {
	l := newGrantLedger()
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	assert.True(t, l.consume("a", now.Add(time.Minute)))
	assert.False(t, l.consume("a", now.Add(time.Minute)))
	assert.True(t, l.used("a"))

	l.release("a")
	assert.False(t, l.used("a"))

	l.consume("old", now.Add(-time.Second))
	l.consume("b", now.Add(time.Minute))
	assert.False(t, l.used("old"), "expired entries are pruned")
}
