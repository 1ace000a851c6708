// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys,
// HTTP response writing, HTTP client initialization, signed challenge
// tokens, and other common operations.
package utils

import (
	"context"

	"github.com/MKhiriev/vaultscribe/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

var (
	// AccountCtxKey is the key under which the authenticated
	// [models.Account] is stored in the request context.
	AccountCtxKey = contextKey("account")

	// SessionTokenCtxKey is the key under which the bearer token that
	// authenticated the request is stored.
	SessionTokenCtxKey = contextKey("sessionToken")
)

// WithAccount returns a copy of ctx carrying account and the session token
// that authenticated it.
func WithAccount(ctx context.Context, account models.Account, token string) context.Context {
	ctx = context.WithValue(ctx, AccountCtxKey, account)
	return context.WithValue(ctx, SessionTokenCtxKey, token)
}

// GetAccountFromContext retrieves the authenticated account from the
// context. ok is false when the value is missing or has an unexpected type.
func GetAccountFromContext(ctx context.Context) (models.Account, bool) {
	account, ok := ctx.Value(AccountCtxKey).(models.Account)
	return account, ok
}

// GetSessionTokenFromContext retrieves the bearer token stored by
// [WithAccount].
func GetSessionTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(SessionTokenCtxKey).(string)
	return token, ok && token != ""
}
