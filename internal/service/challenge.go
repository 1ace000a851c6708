package service

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/vaultscribe/internal/config"
	"github.com/MKhiriev/vaultscribe/internal/crypto"
	"github.com/MKhiriev/vaultscribe/internal/utils"
)

const (
	purposeLogin      = "login"
	purposeReset      = "reset"
	purposeResetGrant = "reset-grant"
)

// challengeCodec signs workflow challenges and seals pending enrollments.
// Without configured keys it generates random ones, which is enough for a
// single process but invalidates everything in flight on restart.
type challengeCodec struct {
	issuer  string
	signKey string
	sealer  crypto.Sealer
	ttl     time.Duration
	now     func() time.Time
}

func newChallengeCodec(cfg config.App, issuer string) (*challengeCodec, error) {
	signKey := cfg.ChallengeSignKey
	if signKey == "" {
		key, err := crypto.GenerateKey(32)
		if err != nil {
			return nil, err
		}
		signKey = hex.EncodeToString(key)
	}

	var sealKey []byte
	if cfg.EnrollmentSealKey != "" {
		key, err := cfg.SealKey()
		if err != nil {
			return nil, err
		}
		sealKey = key
	} else {
		key, err := crypto.GenerateKey(32)
		if err != nil {
			return nil, err
		}
		sealKey = key
	}

	sealer, err := crypto.NewSealer(sealKey)
	if err != nil {
		return nil, fmt.Errorf("build enrollment sealer: %w", err)
	}

	return &challengeCodec{
		issuer:  issuer,
		signKey: signKey,
		sealer:  sealer,
		ttl:     cfg.ChallengeTTL,
		now:     time.Now,
	}, nil
}

func (c *challengeCodec) issue(purpose string, accountID int64, email string) (string, time.Time, error) {
	expiresAt := c.now().Add(c.ttl)

	token, err := utils.GenerateChallengeToken(c.issuer, purpose, accountID, email, expiresAt, c.signKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

func (c *challengeCodec) parse(token, purpose string) (utils.ChallengeClaims, int64, error) {
	claims, err := utils.ValidateAndParseChallengeToken(token, c.signKey, c.issuer, purpose)
	if err != nil {
		if errors.Is(err, utils.ErrChallengeTokenExpired) {
			return utils.ChallengeClaims{}, 0, ErrChallengeExpired
		}
		return utils.ChallengeClaims{}, 0, fmt.Errorf("%w: %w", ErrInvalidChallenge, err)
	}

	accountID, err := claims.AccountID()
	if err != nil {
		return utils.ChallengeClaims{}, 0, fmt.Errorf("%w: %w", ErrInvalidChallenge, err)
	}

	return claims, accountID, nil
}

func (c *challengeCodec) seal(v any) (string, error) {
	return c.sealer.Seal(v)
}

func (c *challengeCodec) open(ticket string, target any) error {
	if err := c.sealer.Open(ticket, target); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChallenge, err)
	}
	return nil
}
