// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service implements the VaultScribe business workflows: login with a
// second factor, signup with second-factor enrollment, password reset,
// bearer sessions and background summarization.
//
// Multi-step workflows never keep state between steps. Every step returns an
// explicit value (challenge, pending enrollment, grant) that the caller hands
// to the next step; those values are signed or sealed so they cannot be
// forged or altered.
package service

import (
	"context"

	"github.com/MKhiriev/vaultscribe/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService drives the login, signup and reset state machines and owns
// session issuance.
type AuthService interface {
	// BeginLogin checks email and password. Returns [ErrInvalidCredentials]
	// for an unknown email or a wrong password and
	// [ErrSecondFactorNotConfigured] for an account without a secret.
	BeginLogin(ctx context.Context, email, password string) (models.LoginChallenge, error)

	// CompleteLogin checks the one-time code for a challenge issued by
	// BeginLogin and creates a session. A wrong code leaves the challenge
	// usable until it expires.
	CompleteLogin(ctx context.Context, challenge models.LoginChallenge, code string) (models.Session, error)

	// BeginSignup validates the credentials and prepares a second-factor
	// enrollment. Nothing is persisted.
	BeginSignup(ctx context.Context, email, password string) (models.PendingEnrollment, error)

	// CompleteSignup checks the first code from the enrolled authenticator
	// and creates the account.
	CompleteSignup(ctx context.Context, pending models.PendingEnrollment, code string) (models.Account, error)

	BeginReset(ctx context.Context, email string) (models.ResetChallenge, error)
	VerifyReset(ctx context.Context, challenge models.ResetChallenge, code string) (models.ResetGrant, error)
	CompleteReset(ctx context.Context, grant models.ResetGrant, newPassword string) error

	// ValidateSession returns the account owning token or [ErrNoValidSession].
	ValidateSession(ctx context.Context, token string) (models.Account, error)
	Logout(ctx context.Context, token string) error
	PurgeExpiredSessions(ctx context.Context) (int64, error)

	// VerifyPassword returns nil when password is correct for email and
	// [ErrInvalidCredentials] otherwise.
	VerifyPassword(ctx context.Context, email, password string) error
}

// SummaryService runs transcription and summarization jobs in the
// background. Jobs are visible only to the account that submitted them.
type SummaryService interface {
	// Submit queues a job and returns it in the queued state.
	Submit(ctx context.Context, account models.Account, req models.SummaryRequest) (models.SummaryJob, error)

	// Get returns the current state of a job.
	Get(ctx context.Context, account models.Account, id string) (models.SummaryJob, error)

	// Wait blocks until the job finishes or ctx is done.
	Wait(ctx context.Context, account models.Account, id string) (models.SummaryJob, error)

	// Start launches the worker pool. Stop cancels it and waits for running
	// jobs to return.
	Start(ctx context.Context)
	Stop()
}
