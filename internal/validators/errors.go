package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password does not meet the strength policy")
)
