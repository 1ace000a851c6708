// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the user-facing wording shared by the terminal client
// and the HTTP API.
//
// All Msg* constants are human-readable message strings shown to a person or
// written into HTTP response bodies. [MessageFor] picks the right one for an
// error returned by the service layer.
package app

import (
	"context"
	"errors"

	"github.com/MKhiriev/vaultscribe/internal/adapter"
	"github.com/MKhiriev/vaultscribe/internal/service"
)

const (
	// MsgInvalidCredentials is shown for an unknown email and for a wrong
	// password alike.
	MsgInvalidCredentials = "Incorrect email or password."

	// MsgSecondFactorNotConfigured is shown when an account predates
	// two-factor enrollment.
	MsgSecondFactorNotConfigured = "Two-factor authentication is not set up for this account. Contact an administrator."

	MsgInvalidSecondFactorCode = "Invalid authentication code. Try again."
	MsgChallengeExpired        = "This step has expired. Please start again."
	MsgInvalidChallenge        = "This request is no longer valid. Please start again."
	MsgGrantAlreadyUsed        = "This password reset was already completed."
	MsgNoValidSession          = "Your session has ended. Please log in again."

	MsgDuplicateAccount   = "An account with this email already exists."
	MsgInvalidEmailFormat = "Please enter a valid email address."

	// MsgWeakPassword spells out the password policy.
	MsgWeakPassword = "Password must be at least 8 characters and contain an uppercase letter, a digit and a symbol."

	MsgStoreUnavailable = "The account database is unavailable. Please try again later."
	MsgEnrollmentFailed = "Could not set up two-factor authentication. Please try again."

	MsgSummaryNotFound       = "Summary not found."
	MsgSummaryQueueFull      = "Too many summaries are in progress. Please try again later."
	MsgInvalidSummaryRequest = "Provide either an audio file or text to summarize."
	MsgTranscriberDisabled   = "Audio transcription is not configured."
	MsgAudioFileNotFound     = "The audio file does not exist."
	MsgAIUnavailable         = "The summarization service is unavailable. Please try again later."

	// MsgInvalidDataProvided is returned when a request body cannot be
	// decoded or fails basic validation.
	MsgInvalidDataProvided = "Invalid data provided."

	MsgTimeout             = "The operation timed out."
	MsgInternalServerError = "Something went wrong. Please try again."
)

var messages = []struct {
	err error
	msg string
}{
	{service.ErrInvalidCredentials, MsgInvalidCredentials},
	{service.ErrSecondFactorNotConfigured, MsgSecondFactorNotConfigured},
	{service.ErrInvalidSecondFactorCode, MsgInvalidSecondFactorCode},
	{service.ErrChallengeExpired, MsgChallengeExpired},
	{service.ErrInvalidChallenge, MsgInvalidChallenge},
	{service.ErrGrantAlreadyUsed, MsgGrantAlreadyUsed},
	{service.ErrNoValidSession, MsgNoValidSession},
	{service.ErrDuplicateAccount, MsgDuplicateAccount},
	{service.ErrInvalidEmailFormat, MsgInvalidEmailFormat},
	{service.ErrWeakPassword, MsgWeakPassword},
	{service.ErrStoreUnavailable, MsgStoreUnavailable},
	{service.ErrEnrollmentFailed, MsgEnrollmentFailed},
	{service.ErrSummaryNotFound, MsgSummaryNotFound},
	{service.ErrSummaryQueueFull, MsgSummaryQueueFull},
	{service.ErrInvalidSummaryRequest, MsgInvalidSummaryRequest},
	{adapter.ErrTranscriberDisabled, MsgTranscriberDisabled},
	{adapter.ErrAudioFileNotFound, MsgAudioFileNotFound},
	{adapter.ErrMissingAPIKey, MsgAIUnavailable},
	{adapter.ErrTooManyRequests, MsgAIUnavailable},
	{adapter.ErrBadGateway, MsgAIUnavailable},
	{adapter.ErrInternalServerError, MsgAIUnavailable},
	{context.DeadlineExceeded, MsgTimeout},
}

// MessageFor returns the message to show a person for err. Errors without a
// dedicated message get [MsgInternalServerError]; nil yields "".
func MessageFor(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return MsgInternalServerError
}
