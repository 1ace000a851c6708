package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/MKhiriev/vaultscribe/internal/config"
	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/utils"
)

type transcriptionResponse struct {
	Text string `json:"text"`
}

// httpTranscriber uploads audio to a whisper-compatible HTTP endpoint.
type httpTranscriber struct {
	client *utils.HTTPClient
	url    string
	logger *logger.Logger
}

// NewHTTPTranscriber constructs a [Transcriber]. An empty TranscriberURL
// yields a transcriber that always returns [ErrTranscriberDisabled].
func NewHTTPTranscriber(cfg config.AI, logger *logger.Logger) (Transcriber, error) {
	t := &httpTranscriber{logger: logger}
	if cfg.TranscriberURL == "" {
		return t, nil
	}

	endpoint, err := normalizeURL(cfg.TranscriberURL)
	if err != nil {
		return nil, fmt.Errorf("invalid transcriber url: %w", err)
	}

	t.client = utils.NewHTTPClient()
	t.client.SetTimeout(cfg.Timeout)
	t.url = endpoint

	return t, nil
}

// Transcribe implements [Transcriber].
func (t *httpTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if t.client == nil {
		return "", ErrTranscriberDisabled
	}

	info, err := os.Stat(audioPath)
	if err != nil {
		t.logger.Info().Err(err).Str("path", audioPath).Msg("audio file is not readable")
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrAudioFileNotFound
		}
		return "", fmt.Errorf("stat audio file: %w", errors.Unwrap(err))
	}
	if info.IsDir() {
		t.logger.Info().Str("path", audioPath).Msg("audio path is a directory")
		return "", ErrAudioFileNotFound
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetFile("file", audioPath).
		SetFormData(map[string]string{"response_format": "json"}).
		Post(t.url)
	if err != nil {
		return "", fmt.Errorf("transcribe request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		t.logger.Err(err).Str("func", "*httpTranscriber.Transcribe").Int("status", resp.StatusCode()).Msg("transcriber rejected request")
		return "", err
	}

	var out transcriptionResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("decode transcriber response: %w", err)
	}

	text := SanitizeASCII(StripSpecialTokens(out.Text))
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
