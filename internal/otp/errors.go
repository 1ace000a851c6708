package otp

import "errors"

var (
	ErrInvalidSecret = errors.New("totp secret is not valid base32")
	ErrInvalidURI    = errors.New("provisioning uri is not a valid otpauth uri")
)
