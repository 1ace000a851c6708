package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidChallengeToken = errors.New("invalid challenge token")
	ErrChallengeTokenExpired = errors.New("challenge token expired")
)

// ChallengeClaims are the claims of a short-lived token proving that one
// step of a multi-step flow succeeded. Purpose binds the token to the step
// that may consume it.
type ChallengeClaims struct {
	jwt.RegisteredClaims

	Email   string `json:"email"`
	Purpose string `json:"purpose"`
}

// AccountID returns the subject as an account ID.
func (c ChallengeClaims) AccountID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// GenerateChallengeToken creates a signed HMAC-SHA256 JWT carrying
// accountID as subject, email and purpose.
//
// The token includes the following standard claims:
//   - ID        (jti): a fresh UUIDv7, unique per token
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the account ID encoded as a string
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): expiresAt
//
// Returns an error if issuer, purpose or signKey is empty.
func GenerateChallengeToken(issuer, purpose string, accountID int64, email string, expiresAt time.Time, signKey string) (string, error) {
	if issuer == "" || purpose == "" || signKey == "" {
		return "", errors.New("invalid params for generating challenge token")
	}

	claims := &ChallengeClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        NewUUIDGenerator().Generate(),
			Issuer:    issuer,
			Subject:   strconv.FormatInt(accountID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email:   email,
		Purpose: purpose,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing challenge token: %w", err)
	}

	return signed, nil
}

// ValidateAndParseChallengeToken verifies the signature, issuer, expiry and
// purpose of tokenString and returns its claims.
//
// Expired tokens yield [ErrChallengeTokenExpired]; every other failure
// yields [ErrInvalidChallengeToken].
func ValidateAndParseChallengeToken(tokenString, signKey, issuer, purpose string) (ChallengeClaims, error) {
	var claims ChallengeClaims

	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ChallengeClaims{}, fmt.Errorf("%w: %w", ErrChallengeTokenExpired, err)
		}
		return ChallengeClaims{}, fmt.Errorf("%w: %w", ErrInvalidChallengeToken, err)
	}

	if claims.Purpose != purpose {
		return ChallengeClaims{}, fmt.Errorf("%w: purpose %q, want %q", ErrInvalidChallengeToken, claims.Purpose, purpose)
	}
	if _, err := claims.AccountID(); err != nil {
		return ChallengeClaims{}, fmt.Errorf("%w: bad subject: %w", ErrInvalidChallengeToken, err)
	}

	return claims, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
