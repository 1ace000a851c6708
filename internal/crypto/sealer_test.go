package crypto

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sealedPayload struct {
	Email     string    `json:"email"`
	Secret    string    `json:"secret"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newTestSealer(t *testing.T, fill byte) Sealer {
	t.Helper()
	s, err := NewSealer(bytes.Repeat([]byte{fill}, 32))
	require.NoError(t, err)
	return s
}

func TestNewSealer_KeyLength(t *testing.T) {
	_, err := NewSealer(make([]byte, 16))
	assert.ErrorIs(t, err, ErrInvalidSealKey)

	_, err = NewSealer(nil)
	assert.ErrorIs(t, err, ErrInvalidSealKey)
}

func TestSealer_RoundTrip(t *testing.T) {
	s := newTestSealer(t, 0x01)
	in := sealedPayload{
		Email:     "a@b.com",
		Secret:    "JBSWY3DPEHPK3PXP",
		ExpiresAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	sealed, err := s.Seal(in)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "JBSWY3DPEHPK3PXP")
	assert.False(t, strings.ContainsAny(sealed, "+/="), "blob must be URL-safe")

	var out sealedPayload
	require.NoError(t, s.Open(sealed, &out))
	assert.Equal(t, in.Email, out.Email)
	assert.Equal(t, in.Secret, out.Secret)
	assert.True(t, in.ExpiresAt.Equal(out.ExpiresAt))
}

func TestSealer_NonceIsRandom(t *testing.T) {
	s := newTestSealer(t, 0x01)

	a, err := s.Seal("same")
	require.NoError(t, err)
	b, err := s.Seal("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSealer_OpenFailures(t *testing.T) {
	s := newTestSealer(t, 0x01)
	other := newTestSealer(t, 0x02)

	sealed, err := s.Seal(sealedPayload{Email: "a@b.com"})
	require.NoError(t, err)

	tamperedBytes := []byte(sealed)
	mid := len(tamperedBytes) / 2
	if tamperedBytes[mid] == 'A' {
		tamperedBytes[mid] = 'B'
	} else {
		tamperedBytes[mid] = 'A'
	}

	tests := []struct {
		name   string
		sealer Sealer
		blob   string
	}{
		{name: "wrong key", sealer: other, blob: sealed},
		{name: "tampered", sealer: s, blob: string(tamperedBytes)},
		{name: "not base64", sealer: s, blob: "***"},
		{name: "too short", sealer: s, blob: "AAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out sealedPayload
			err := tt.sealer.Open(tt.blob, &out)
			assert.ErrorIs(t, err, ErrSealedDataCorrupted)
		})
	}
}
