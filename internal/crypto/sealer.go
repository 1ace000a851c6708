// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
)

const sealKeyLength = 32

// gcmSealer is the private implementation of [Sealer] using AES-256-GCM.
type gcmSealer struct {
	aead cipher.AEAD
}

// NewSealer constructs a [Sealer] from a 32-byte key. The key must stay the
// same across restarts for previously issued blobs to open.
func NewSealer(key []byte) (Sealer, error) {
	if len(key) != sealKeyLength {
		return nil, ErrInvalidSealKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &gcmSealer{aead: gcm}, nil
}

// Seal implements [Sealer]. The blob layout is nonce (12 bytes) ‖ ciphertext.
func (s *gcmSealer) Seal(data any) (string, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal data: %w", err)
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	blob := s.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(blob), nil
}

// Open implements [Sealer].
func (s *gcmSealer) Open(sealed string, target any) error {
	blob, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return fmt.Errorf("%w: decode base64: %w", ErrSealedDataCorrupted, err)
	}

	nonceSize := s.aead.NonceSize()
	if len(blob) < nonceSize {
		return fmt.Errorf("%w: ciphertext too short", ErrSealedDataCorrupted)
	}

	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSealedDataCorrupted, err)
	}

	if err := json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	return nil
}
