// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/MKhiriev/vaultscribe/internal/config"
)

const argon2idPrefix = "$argon2id$"

// argonParams are the Argon2id cost parameters either configured for new
// hashes or decoded from a stored one.
type argonParams struct {
	memory      uint32 // KiB
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
	version     int
}

// argon2Hasher is the private implementation of [PasswordHasher] producing
// PHC-formatted Argon2id strings:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
//
// with salt and key in unpadded standard base64.
type argon2Hasher struct {
	params argonParams
}

// NewPasswordHasher constructs a [PasswordHasher] with the Argon2id cost
// parameters from cfg. The parameters are fixed for the process lifetime.
func NewPasswordHasher(cfg config.Argon) PasswordHasher {
	return &argon2Hasher{
		params: argonParams{
			memory:      cfg.Memory,
			iterations:  cfg.Iterations,
			parallelism: cfg.Parallelism,
			saltLength:  cfg.SaltLength,
			keyLength:   cfg.KeyLength,
			version:     argon2.Version,
		},
	}
}

// Hash implements [PasswordHasher].
func (h *argon2Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, h.params.saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, h.params.iterations, h.params.memory, h.params.parallelism, h.params.keyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.memory,
		h.params.iterations,
		h.params.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify implements [PasswordHasher]. The candidate is derived with the
// parameters stored in encodedHash, not the configured ones, so hashes made
// under older settings keep verifying.
func (h *argon2Hasher) Verify(encodedHash, plaintext string) (bool, error) {
	params, salt, key, err := decodeArgon2id(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(plaintext), salt, params.iterations, params.memory, params.parallelism, params.keyLength)

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

// NeedsRehash implements [PasswordHasher].
func (h *argon2Hasher) NeedsRehash(encodedHash string) bool {
	stored, _, _, err := decodeArgon2id(encodedHash)
	if err != nil {
		return true
	}

	return stored.version != h.params.version ||
		stored.memory < h.params.memory ||
		stored.iterations < h.params.iterations ||
		stored.parallelism < h.params.parallelism ||
		stored.saltLength < h.params.saltLength ||
		stored.keyLength < h.params.keyLength
}

func decodeArgon2id(encodedHash string) (argonParams, []byte, []byte, error) {
	var params argonParams

	if !strings.HasPrefix(encodedHash, argon2idPrefix) {
		return params, nil, nil, ErrUnrecognizedHashFormat
	}

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return params, nil, nil, fmt.Errorf("%w: expected 6 fields, got %d", ErrUnrecognizedHashFormat, len(parts))
	}

	if _, err := fmt.Sscanf(parts[2], "v=%d", &params.version); err != nil {
		return params, nil, nil, fmt.Errorf("%w: invalid version: %w", ErrUnrecognizedHashFormat, err)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.iterations, &params.parallelism); err != nil {
		return params, nil, nil, fmt.Errorf("%w: invalid parameters: %w", ErrUnrecognizedHashFormat, err)
	}
	if params.memory == 0 || params.iterations == 0 || params.parallelism == 0 {
		return params, nil, nil, fmt.Errorf("%w: zero cost parameter", ErrUnrecognizedHashFormat)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: invalid salt encoding: %w", ErrUnrecognizedHashFormat, err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, fmt.Errorf("%w: invalid key encoding", ErrUnrecognizedHashFormat)
	}

	params.saltLength = uint32(len(salt))
	params.keyLength = uint32(len(key))

	return params, salt, key, nil
}
