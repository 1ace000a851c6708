package crypto

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

type bcryptVerifier struct{}

// NewLegacyVerifier returns a [LegacyVerifier] for bcrypt hashes written by
// earlier releases.
func NewLegacyVerifier() LegacyVerifier {
	return bcryptVerifier{}
}

// Recognizes implements [LegacyVerifier].
func (bcryptVerifier) Recognizes(encodedHash string) bool {
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(encodedHash, prefix) {
			return true
		}
	}
	return false
}

// Verify implements [LegacyVerifier].
func (v bcryptVerifier) Verify(encodedHash, plaintext string) (bool, error) {
	if !v.Recognizes(encodedHash) {
		return false, ErrUnrecognizedHashFormat
	}

	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrUnrecognizedHashFormat, err)
	}
}
