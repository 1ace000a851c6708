package otp

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 6238 test secret "12345678901234567890" in base32.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func newTestVerifier(now time.Time) *totpVerifier {
	return &totpVerifier{now: func() time.Time { return now }}
}

func TestGenerateSecret(t *testing.T) {
	v := NewVerifier()

	s1, err := v.GenerateSecret()
	require.NoError(t, err)
	s2, err := v.GenerateSecret()
	require.NoError(t, err)

	assert.Len(t, s1, 32)
	assert.NotContains(t, s1, "=")
	assert.NotEqual(t, s1, s2)

	raw, err := decodeSecret(s1)
	require.NoError(t, err)
	assert.Len(t, raw, SecretBytes)
}

func TestGenerateCode_RFC6238Vectors(t *testing.T) {
	// SHA1 vectors from RFC 6238 appendix B, truncated to 6 digits.
	tests := []struct {
		unix int64
		want string
	}{
		{unix: 59, want: "287082"},
		{unix: 1111111109, want: "081804"},
		{unix: 1234567890, want: "005924"},
		{unix: 2000000000, want: "279037"},
	}

	for _, tt := range tests {
		code, err := GenerateCode(rfcSecret, time.Unix(tt.unix, 0))
		require.NoError(t, err)
		assert.Equal(t, tt.want, code, "t=%d", tt.unix)
	}
}

func TestVerify_Window(t *testing.T) {
	now := time.Unix(1_700_000_015, 0)
	v := newTestVerifier(now)

	codeAt := func(offset time.Duration) string {
		code, err := GenerateCode(rfcSecret, now.Add(offset))
		require.NoError(t, err)
		return code
	}

	assert.True(t, v.Verify(rfcSecret, codeAt(0), 1), "current step")
	assert.True(t, v.Verify(rfcSecret, codeAt(-Period), 1), "previous step")
	assert.True(t, v.Verify(rfcSecret, codeAt(Period), 1), "next step")
	assert.False(t, v.Verify(rfcSecret, codeAt(-2*Period), 1), "two steps back")
	assert.False(t, v.Verify(rfcSecret, codeAt(2*Period), 1), "two steps ahead")

	assert.False(t, v.Verify(rfcSecret, codeAt(-Period), 0), "previous step without window")
}

func TestVerify_RejectsMalformedCodes(t *testing.T) {
	now := time.Unix(1_700_000_015, 0)
	v := newTestVerifier(now)
	valid, err := GenerateCode(rfcSecret, now)
	require.NoError(t, err)

	for _, code := range []string{"", "12345", "1234567", "abcdef", "12 456", valid + "0", " " + valid[1:]} {
		assert.False(t, v.Verify(rfcSecret, code, 1), "code %q", code)
	}
}

func TestVerify_InvalidSecret(t *testing.T) {
	v := newTestVerifier(time.Unix(1_700_000_015, 0))
	assert.False(t, v.Verify("not base32!", "123456", 1))
}

func TestProvisioningURI(t *testing.T) {
	v := NewVerifier()

	uri, err := v.ProvisioningURI(rfcSecret, "a@b.com", "VaultScribe")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "otpauth://totp/"), uri)

	u, err := url.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "/VaultScribe:a@b.com", u.Path)

	q := u.Query()
	assert.Equal(t, rfcSecret, q.Get("secret"))
	assert.Equal(t, "VaultScribe", q.Get("issuer"))
	assert.Equal(t, "SHA1", q.Get("algorithm"))
	assert.Equal(t, "6", q.Get("digits"))
	assert.Equal(t, "30", q.Get("period"))
}

func TestProvisioningURI_Errors(t *testing.T) {
	v := NewVerifier()

	_, err := v.ProvisioningURI("!!!", "a@b.com", "VaultScribe")
	assert.ErrorIs(t, err, ErrInvalidSecret)

	_, err = v.ProvisioningURI(rfcSecret, "a@b.com", "")
	assert.Error(t, err)
}
