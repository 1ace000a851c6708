package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/vaultscribe/internal/config"
	"github.com/MKhiriev/vaultscribe/models"
)

func TestChallengeCodec_RandomKeysWhenUnconfigured(t *testing.T) {
	a, err := newChallengeCodec(config.App{ChallengeTTL: time.Minute}, "VaultScribe")
	require.NoError(t, err)
	b, err := newChallengeCodec(config.App{ChallengeTTL: time.Minute}, "VaultScribe")
	require.NoError(t, err)

	token, _, err := a.issue(purposeLogin, 1, "a@b.com")
	require.NoError(t, err)

	_, id, err := a.parse(token, purposeLogin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, _, err = b.parse(token, purposeLogin)
	assert.ErrorIs(t, err, ErrInvalidChallenge)
}

func TestChallengeCodec_ConfiguredSealKey(t *testing.T) {
	cfg := config.App{
		ChallengeTTL:      time.Minute,
		EnrollmentSealKey: "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
	}
	a, err := newChallengeCodec(cfg, "VaultScribe")
	require.NoError(t, err)
	b, err := newChallengeCodec(cfg, "VaultScribe")
	require.NoError(t, err)

	ticket, err := a.seal(models.PendingEnrollment{Email: "a@b.com", TOTPSecret: "S"})
	require.NoError(t, err)

	var opened models.PendingEnrollment
	require.NoError(t, b.open(ticket, &opened))
	assert.Equal(t, "a@b.com", opened.Email)
	assert.Equal(t, "S", opened.TOTPSecret)

	assert.ErrorIs(t, b.open("bogus", &opened), ErrInvalidChallenge)
}

func TestChallengeCodec_BadSealKey(t *testing.T) {
	_, err := newChallengeCodec(config.App{EnrollmentSealKey: "zz"}, "VaultScribe")
	assert.ErrorIs(t, err, config.ErrInvalidAppConfigs)
}
