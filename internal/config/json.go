package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk JSON layout of [StructuredConfig].
type StructuredJSONConfig struct {
	App struct {
		Version           string   `json:"version"`
		ChallengeSignKey  string   `json:"challenge_sign_key"`
		EnrollmentSealKey string   `json:"enrollment_seal_key"`
		ChallengeTTL      Duration `json:"challenge_ttl"`
		LogFile           string   `json:"log_file"`
	} `json:"app,omitempty"`

	Auth struct {
		Issuer             string   `json:"issuer"`
		SessionTTL         Duration `json:"session_ttl"`
		TOTPWindow         uint     `json:"totp_window"`
		EnrollmentImageDir string   `json:"enrollment_image_dir"`
		Argon              struct {
			Memory      uint32 `json:"memory"`
			Iterations  uint32 `json:"iterations"`
			Parallelism uint8  `json:"parallelism"`
			SaltLength  uint32 `json:"salt_length"`
			KeyLength   uint32 `json:"key_length"`
		} `json:"argon,omitempty"`
	} `json:"auth,omitempty"`

	Storage struct {
		DB struct {
			Driver       string   `json:"driver"`
			DSN          string   `json:"dsn"`
			QueryTimeout Duration `json:"query_timeout"`
			MaxRetries   uint64   `json:"max_retries"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		RateLimit      int      `json:"rate_limit"`
	} `json:"server,omitempty"`

	AI struct {
		OpenRouterURL    string   `json:"openrouter_url"`
		OpenRouterAPIKey string   `json:"openrouter_api_key"`
		Model            string   `json:"model"`
		Temperature      float64  `json:"temperature"`
		MaxTokens        int      `json:"max_tokens"`
		Timeout          Duration `json:"timeout"`
		TranscriberURL   string   `json:"transcriber_url"`
	} `json:"ai,omitempty"`

	Workers struct {
		SummaryWorkers int `json:"summary_workers"`
		QueueSize      int `json:"queue_size"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version:           jsonCfg.App.Version,
			ChallengeSignKey:  jsonCfg.App.ChallengeSignKey,
			EnrollmentSealKey: jsonCfg.App.EnrollmentSealKey,
			ChallengeTTL:      time.Duration(jsonCfg.App.ChallengeTTL),
			LogFile:           jsonCfg.App.LogFile,
		},
		Auth: Auth{
			Issuer:             jsonCfg.Auth.Issuer,
			SessionTTL:         time.Duration(jsonCfg.Auth.SessionTTL),
			TOTPWindow:         jsonCfg.Auth.TOTPWindow,
			EnrollmentImageDir: jsonCfg.Auth.EnrollmentImageDir,
			Argon: Argon{
				Memory:      jsonCfg.Auth.Argon.Memory,
				Iterations:  jsonCfg.Auth.Argon.Iterations,
				Parallelism: jsonCfg.Auth.Argon.Parallelism,
				SaltLength:  jsonCfg.Auth.Argon.SaltLength,
				KeyLength:   jsonCfg.Auth.Argon.KeyLength,
			},
		},
		Storage: Storage{
			DB: DB{
				Driver:       jsonCfg.Storage.DB.Driver,
				DSN:          jsonCfg.Storage.DB.DSN,
				QueryTimeout: time.Duration(jsonCfg.Storage.DB.QueryTimeout),
				MaxRetries:   jsonCfg.Storage.DB.MaxRetries,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			RateLimit:      jsonCfg.Server.RateLimit,
		},
		AI: AI{
			OpenRouterURL:    jsonCfg.AI.OpenRouterURL,
			OpenRouterAPIKey: jsonCfg.AI.OpenRouterAPIKey,
			Model:            jsonCfg.AI.Model,
			Temperature:      jsonCfg.AI.Temperature,
			MaxTokens:        jsonCfg.AI.MaxTokens,
			Timeout:          time.Duration(jsonCfg.AI.Timeout),
			TranscriberURL:   jsonCfg.AI.TranscriberURL,
		},
		Workers: Workers{
			SummaryWorkers: jsonCfg.Workers.SummaryWorkers,
			QueueSize:      jsonCfg.Workers.QueueSize,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as from integer nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
