// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/hex"
	"fmt"
)

// Supported values of [DB.Driver].
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

const (
	enrollmentSealKeyLength   = 32
	minChallengeSignKeyLength = 32
)

// validate checks that the final merged [StructuredConfig] satisfies the
// invariants shared by every binary.
func (cfg *StructuredConfig) validate() error {
	db := cfg.Storage.DB
	if db.DSN == "" || db.QueryTimeout <= 0 {
		return ErrInvalidStorageConfigs
	}
	if db.Driver != DriverSQLite && db.Driver != DriverPostgres {
		return fmt.Errorf("%w: unsupported driver %q", ErrInvalidStorageConfigs, db.Driver)
	}

	auth := cfg.Auth
	if auth.Issuer == "" || auth.SessionTTL <= 0 {
		return ErrInvalidAuthConfigs
	}
	if auth.Argon.Memory < 8*uint32(auth.Argon.Parallelism) || auth.Argon.Iterations == 0 ||
		auth.Argon.Parallelism == 0 || auth.Argon.SaltLength < 8 || auth.Argon.KeyLength < 16 {
		return fmt.Errorf("%w: argon2 parameters below minimum", ErrInvalidAuthConfigs)
	}

	if cfg.App.ChallengeTTL <= 0 {
		return ErrInvalidAppConfigs
	}
	if cfg.App.EnrollmentSealKey != "" {
		if _, err := cfg.App.SealKey(); err != nil {
			return err
		}
	}

	if cfg.Workers.SummaryWorkers <= 0 || cfg.Workers.QueueSize <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

// ValidateServer checks the settings that only the HTTP API needs: a listen
// address and the keys that protect state handed to remote callers.
func (cfg *StructuredConfig) ValidateServer() error {
	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 || cfg.Server.RateLimit <= 0 {
		return ErrInvalidServerConfigs
	}
	if cfg.App.ChallengeSignKey == "" {
		return fmt.Errorf("%w: challenge sign key is required", ErrInvalidServerConfigs)
	}
	if len(cfg.App.ChallengeSignKey) < minChallengeSignKeyLength {
		return fmt.Errorf("%w: challenge sign key must be at least %d bytes", ErrInvalidServerConfigs, minChallengeSignKeyLength)
	}
	if cfg.App.EnrollmentSealKey == "" {
		return fmt.Errorf("%w: enrollment seal key is required", ErrInvalidServerConfigs)
	}

	return nil
}

// SealKey decodes [App.EnrollmentSealKey].
func (a App) SealKey() ([]byte, error) {
	key, err := hex.DecodeString(a.EnrollmentSealKey)
	if err != nil {
		return nil, fmt.Errorf("%w: enrollment seal key is not hex: %w", ErrInvalidAppConfigs, err)
	}
	if len(key) != enrollmentSealKeyLength {
		return nil, fmt.Errorf("%w: enrollment seal key must be %d bytes", ErrInvalidAppConfigs, enrollmentSealKeyLength)
	}

	return key, nil
}
