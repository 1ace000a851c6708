// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// LoginChallenge is handed out after the password step of a login and is the
// only input accepted by the second-factor step. Holding one proves that the
// password for Email was verified before ExpiresAt.
//
// Token is the signed form of the challenge. It is the only field the
// second-factor step trusts; the others are informational.
type LoginChallenge struct {
	AccountID int64     `json:"account_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	Token     string    `json:"-"`
}

// PendingEnrollment is the transient signup state between the credentials
// step and second-factor confirmation. Nothing in it is persisted until the
// enrollment is confirmed with a valid code.
//
// Ticket is the sealed form of the enrollment that confirmation opens.
type PendingEnrollment struct {
	Email           string    `json:"email"`
	PasswordHash    string    `json:"password_hash"`
	TOTPSecret      string    `json:"totp_secret"`
	ProvisioningURI string    `json:"provisioning_uri"`
	ImagePath       string    `json:"image_path,omitempty"`
	ExpiresAt       time.Time `json:"expires_at"`
	Ticket          string    `json:"-"`
}

// ResetChallenge is issued once the reset flow located an account that can
// be verified with a second factor.
type ResetChallenge struct {
	AccountID int64     `json:"account_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	Token     string    `json:"-"`
}

// ResetGrant permits exactly one password overwrite for Email. It is only
// produced after the second factor for the account was verified.
type ResetGrant struct {
	AccountID int64     `json:"account_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	Token     string    `json:"-"`
}
