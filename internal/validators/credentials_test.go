package validators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/vaultscribe/models"
)

func TestNewCredentialsValidator(t *testing.T) {
	v := NewCredentialsValidator()
	require.NotNil(t, v)
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{email: "a@b.com", valid: true},
		{email: "first.last@example.org", valid: true},
		{email: "user+tag@mail-host.io", valid: true},
		{email: "o'brien@example.ie", valid: true},
		{email: "", valid: false},
		{email: "plainaddress", valid: false},
		{email: "@b.com", valid: false},
		{email: ".a@b.com", valid: false},
		{email: "a..b@c.com", valid: false},
		{email: "a@b", valid: false},
		{email: "a@b.c", valid: false},
		{email: "a@b.c0m", valid: false},
		{email: "a@sub.domain.com", valid: false},
		{email: "a b@c.com", valid: false},
		{email: "a@b.com\n", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidEmailFormat)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "too short", password: "abc", valid: false},
		{name: "strong", password: "Abcd1234!", valid: true},
		{name: "no uppercase", password: "alllowercase1!", valid: false},
		{name: "no digit", password: "NoDigits!", valid: false},
		{name: "no symbol", password: "NoSymbol123", valid: false},
		{name: "exactly eight", password: "Abcdef1?", valid: true},
		{name: "seven chars", password: "Abcde1?", valid: false},
		{name: "symbol outside set", password: "Abcdef12-", valid: false},
		{name: "quote counts", password: `Abcdef12"`, valid: true},
		{name: "non-ascii uppercase only", password: "Ábcdef12!", valid: false},
		{name: "line break", password: "Abcd1234!\n", valid: false},
		{name: "empty", password: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrWeakPassword)
			}
		})
	}
}

func TestCredentialsValidator_Validate(t *testing.T) {
	ctx := context.Background()
	v := NewCredentialsValidator()

	tests := []struct {
		name    string
		obj     any
		fields  []string
		wantErr error
	}{
		{
			name: "valid credentials",
			obj:  models.CredentialsRequest{Email: "a@b.com", Password: "Abcd1234!"},
		},
		{
			name: "pointer is accepted",
			obj:  &models.CredentialsRequest{Email: "a@b.com", Password: "Abcd1234!"},
		},
		{
			name:    "email checked first",
			obj:     models.CredentialsRequest{Email: "bad", Password: "weak"},
			wantErr: ErrInvalidEmailFormat,
		},
		{
			name:    "weak password",
			obj:     models.CredentialsRequest{Email: "a@b.com", Password: "weak"},
			wantErr: ErrWeakPassword,
		},
		{
			name:   "email only ignores password",
			obj:    models.CredentialsRequest{Email: "a@b.com", Password: "weak"},
			fields: []string{FieldEmail},
		},
		{
			name:   "password only ignores email",
			obj:    models.CredentialsRequest{Email: "bad", Password: "Abcd1234!"},
			fields: []string{FieldPassword},
		},
		{
			name:    "reset request checks new password",
			obj:     models.ResetCompleteRequest{Grant: "g", NewPassword: "NoSymbol123"},
			wantErr: ErrWeakPassword,
		},
		{
			name: "valid reset request",
			obj:  &models.ResetCompleteRequest{Grant: "g", NewPassword: "Abcd1234!"},
		},
		{
			name:    "unknown field",
			obj:     models.CredentialsRequest{Email: "a@b.com", Password: "Abcd1234!"},
			fields:  []string{"nickname"},
			wantErr: ErrUnknownField,
		},
		{
			name:    "unsupported type",
			obj:     "a@b.com",
			wantErr: ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.obj, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
