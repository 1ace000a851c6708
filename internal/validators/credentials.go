package validators

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/vaultscribe/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldEmail targets the account email.
	FieldEmail = "email"

	// FieldPassword targets the plaintext password checked against the
	// strength policy.
	FieldPassword = "password"
)

// MinPasswordLength is the shortest password the strength policy accepts.
const MinPasswordLength = 8

// PasswordSymbols is the punctuation set a password must draw at least one
// character from.
const PasswordSymbols = `!@#$%^&*(),.?":{}|<>`

var emailPattern = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9-]+\\.[a-zA-Z]{2,}$")

// CredentialsValidator checks account emails and new passwords.
type CredentialsValidator struct{}

func NewCredentialsValidator() Validator {
	return &CredentialsValidator{}
}

func (v *CredentialsValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.CredentialsRequest:
		return v.validateCredentials(value.Email, value.Password, fields...)
	case *models.CredentialsRequest:
		return v.validateCredentials(value.Email, value.Password, fields...)

	case models.ResetCompleteRequest:
		return v.validateCredentials("", value.NewPassword, FieldPassword)
	case *models.ResetCompleteRequest:
		return v.validateCredentials("", value.NewPassword, FieldPassword)

	default:
		return ErrUnsupportedType
	}
}

func (v *CredentialsValidator) validateCredentials(email, password string, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if err := ValidateEmail(email); err != nil {
				return err
			}
		case FieldPassword:
			if err := ValidatePassword(password); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// ValidateEmail returns [ErrInvalidEmailFormat] unless email has the shape
// local@domain.tld where the local part neither starts with a dot nor
// contains two consecutive dots.
func ValidateEmail(email string) error {
	if strings.HasPrefix(email, ".") || strings.Contains(email, "..") {
		return ErrInvalidEmailFormat
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmailFormat
	}
	return nil
}

// ValidatePassword returns [ErrWeakPassword] unless password is at least
// [MinPasswordLength] characters long and contains an uppercase ASCII
// letter, a digit and one of [PasswordSymbols].
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength || strings.ContainsAny(password, "\r\n") {
		return ErrWeakPassword
	}

	var upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}

	if !upper || !digit || !symbol {
		return ErrWeakPassword
	}
	return nil
}
