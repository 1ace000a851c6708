package service

import (
	"errors"

	"github.com/MKhiriev/vaultscribe/internal/store"
	"github.com/MKhiriev/vaultscribe/internal/validators"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so callers cannot tell which one happened.
	ErrInvalidCredentials        = errors.New("invalid email or password")
	ErrSecondFactorNotConfigured = errors.New("second factor is not configured for this account")
	ErrInvalidSecondFactorCode   = errors.New("invalid second factor code")

	ErrChallengeExpired = errors.New("challenge expired")
	ErrInvalidChallenge = errors.New("invalid challenge")
	ErrGrantAlreadyUsed = errors.New("reset grant already used")

	ErrNoValidSession   = errors.New("no valid session")
	ErrEnrollmentFailed = errors.New("failed to prepare second factor enrollment")

	ErrDuplicateAccount   = store.ErrDuplicateAccount
	ErrStoreUnavailable   = store.ErrStoreUnavailable
	ErrWeakPassword       = validators.ErrWeakPassword
	ErrInvalidEmailFormat = validators.ErrInvalidEmailFormat

	ErrSummaryNotFound       = errors.New("summary job not found")
	ErrSummaryQueueFull      = errors.New("summary queue is full")
	ErrInvalidSummaryRequest = errors.New("exactly one of audio path and text is required")
)
