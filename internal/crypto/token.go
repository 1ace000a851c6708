package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// SessionTokenBytes is the amount of entropy in a session token.
const SessionTokenBytes = 32

// GenerateToken returns n bytes from the OS CSPRNG encoded as unpadded
// URL-safe base64.
func GenerateToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateSessionToken returns a fresh opaque bearer token.
func GenerateSessionToken() (string, error) {
	return GenerateToken(SessionTokenBytes)
}

// GenerateKey returns n raw random bytes for use as a symmetric key.
func GenerateKey(n int) ([]byte, error) {
	key := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}
