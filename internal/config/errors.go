package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty DSN, unknown driver or zero query timeout).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAuthConfigs indicates an invalid authentication policy
	// (for example, empty issuer or Argon2 parameters below the minimum).
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, a malformed enrollment seal key).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidServerConfigs indicates settings the HTTP server cannot
	// start with (for example, missing address or signing key).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, a non-positive pool size).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
