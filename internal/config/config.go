// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for VaultScribe.
// It aggregates all sub-configurations and is populated by merging values
// from defaults, environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds process-wide settings: version, signing and sealing keys
	// for the stateless HTTP auth flow, and the client log file.
	App App `envPrefix:"APP_"`

	// Auth holds the authentication policy: issuer, session lifetime,
	// TOTP clock-skew window and password hashing cost.
	Auth Auth `envPrefix:"AUTH_"`

	// Storage holds configuration for the relational credential store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP API.
	Server Server `envPrefix:"SERVER_"`

	// AI holds the transcription and summarization collaborators.
	AI AI `envPrefix:"AI_"`

	// Workers holds configuration for the background summarization pool.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds process-wide settings.
type App struct {
	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// ChallengeSignKey is the HMAC key used to sign login and reset
	// challenge tokens handed to HTTP clients between workflow steps.
	// Env: APP_CHALLENGE_SIGN_KEY
	ChallengeSignKey string `env:"CHALLENGE_SIGN_KEY"`

	// EnrollmentSealKey is a hex-encoded 32-byte AES key used to seal
	// pending enrollments returned to HTTP clients.
	// Env: APP_ENROLLMENT_SEAL_KEY
	EnrollmentSealKey string `env:"ENROLLMENT_SEAL_KEY"`

	// ChallengeTTL bounds how long a login challenge, reset challenge or
	// pending enrollment stays usable.
	// Env: APP_CHALLENGE_TTL
	ChallengeTTL time.Duration `env:"CHALLENGE_TTL"`

	// LogFile is where the terminal client writes its logs.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// Auth holds the authentication policy.
type Auth struct {
	// Issuer is shown by authenticator apps next to the account label.
	// Env: AUTH_ISSUER
	Issuer string `env:"ISSUER"`

	// SessionTTL is the lifetime of an issued session token.
	// Env: AUTH_SESSION_TTL
	SessionTTL time.Duration `env:"SESSION_TTL"`

	// TOTPWindow is the number of adjacent 30-second steps accepted on
	// either side of the current one.
	// Env: AUTH_TOTP_WINDOW
	TOTPWindow uint `env:"TOTP_WINDOW"`

	// EnrollmentImageDir is the directory where enrollment QR images are
	// written.
	// Env: AUTH_ENROLLMENT_IMAGE_DIR
	EnrollmentImageDir string `env:"ENROLLMENT_IMAGE_DIR"`

	// Argon holds the Argon2id cost parameters.
	Argon Argon `envPrefix:"ARGON_"`
}

// Argon holds Argon2id cost parameters. Stored hashes with weaker
// parameters are upgraded on the next successful login.
type Argon struct {
	Memory      uint32 `env:"MEMORY"` // KiB
	Iterations  uint32 `env:"ITERATIONS"`
	Parallelism uint8  `env:"PARALLELISM"`
	SaltLength  uint32 `env:"SALT_LENGTH"`
	KeyLength   uint32 `env:"KEY_LENGTH"`
}

// Storage groups the configuration for storage backends.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// Driver selects the database/sql driver: "sqlite3" or "pgx".
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is a SQLite file path or a PostgreSQL connection string.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`

	// QueryTimeout bounds every single store operation.
	// Env: STORAGE_DB_QUERY_TIMEOUT
	QueryTimeout time.Duration `env:"QUERY_TIMEOUT"`

	// MaxRetries is the number of retries for transient failures.
	// Env: STORAGE_DB_MAX_RETRIES
	MaxRetries uint64 `env:"MAX_RETRIES"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RateLimit is the number of requests per minute a single client IP
	// may send to the authentication routes.
	// Env: SERVER_RATE_LIMIT
	RateLimit int `env:"RATE_LIMIT"`
}

// AI holds settings for the transcription and summarization services.
type AI struct {
	OpenRouterURL    string        `env:"OPENROUTER_URL"`
	OpenRouterAPIKey string        `env:"OPENROUTER_API_KEY"`
	Model            string        `env:"MODEL"`
	Temperature      float64       `env:"TEMPERATURE"`
	MaxTokens        int           `env:"MAX_TOKENS"`
	Timeout          time.Duration `env:"TIMEOUT"`

	// TranscriberURL is a whisper-compatible HTTP endpoint accepting a
	// multipart "file" upload. Audio summaries are disabled when empty.
	TranscriberURL string `env:"TRANSCRIBER_URL"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SummaryWorkers is the number of concurrent summarization workers.
	SummaryWorkers int `env:"SUMMARY_WORKERS"`

	// QueueSize is the capacity of the pending job queue.
	QueueSize int `env:"QUEUE_SIZE"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  0. Defaults
//  1. .env file and environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withDotEnv().
		withEnv().
		withFlags().
		withJSON().
		build()
}

// GetConfigFromFile is [GetStructuredConfig] for programs that own their
// command line. jsonPath overrides the CONFIG environment variable when set.
func GetConfigFromFile(jsonPath string) (*StructuredConfig, error) {
	b := newConfigBuilder().
		withDefaults().
		withDotEnv().
		withEnv()

	if jsonPath != "" {
		b.configs = append(b.configs, &StructuredConfig{JSONFilePath: jsonPath})
	}

	return b.withJSON().build()
}
