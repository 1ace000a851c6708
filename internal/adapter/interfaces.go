// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides clients for the remote AI services VaultScribe
// depends on: a speech-to-text transcriber and a text summarizer.
//
// Both are plain HTTP APIs reached with resty. Error values defined in
// errors.go are mapped from HTTP status codes by mapHTTPError so that
// callers can use [errors.Is] without knowing the transport (e.g.
// [ErrUnauthorized] for 401, [ErrTooManyRequests] for 429).
package adapter

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// Summarizer condenses text into a short readable summary.
type Summarizer interface {
	// Summarize returns a summary of text. Returns [ErrEmptyInput] for blank
	// text and [ErrEmptyResponse] when the service answers without content.
	Summarize(ctx context.Context, text string) (string, error)
}

// Transcriber turns recorded speech into text.
type Transcriber interface {
	// Transcribe uploads the audio file at audioPath and returns the
	// sanitized transcript.
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
