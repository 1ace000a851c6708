package config

import "time"

const (
	defaultIssuer        = "VaultScribe"
	defaultDSN           = "vaultscribe.db"
	defaultOpenRouterURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel         = "deepseek/deepseek-chat-v3.1:free"
)

// defaultConfig is the lowest-priority source. Every value here can be
// overridden by env, flags or JSON.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			ChallengeTTL: 5 * time.Minute,
			LogFile:      "vaultscribe.log",
		},
		Auth: Auth{
			Issuer:             defaultIssuer,
			SessionTTL:         30 * 24 * time.Hour,
			TOTPWindow:         1,
			EnrollmentImageDir: "assets",
			Argon: Argon{
				Memory:      64 * 1024,
				Iterations:  3,
				Parallelism: 2,
				SaltLength:  16,
				KeyLength:   32,
			},
		},
		Storage: Storage{
			DB: DB{
				Driver:       DriverSQLite,
				DSN:          defaultDSN,
				QueryTimeout: 5 * time.Second,
				MaxRetries:   3,
			},
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
			RateLimit:      20,
		},
		AI: AI{
			OpenRouterURL: defaultOpenRouterURL,
			Model:         defaultModel,
			Temperature:   0.2,
			MaxTokens:     1024,
			Timeout:       60 * time.Second,
		},
		Workers: Workers{
			SummaryWorkers: 2,
			QueueSize:      16,
		},
	}
}
