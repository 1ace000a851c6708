package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/vaultscribe/internal/config"
	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/utils"
)

const summaryPrompt = "Please summarize the following text clearly and concisely. " +
	"Provide the main points, and keep it readable and well-structured. " +
	"Do NOT introduce the task with phrases like 'Certainly, let's do that' -- " +
	"instead, just jump straight into the summary.\n\n" +
	"TEXT TO SUMMARIZE:\n\n"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// openRouterSummarizer calls an OpenAI-compatible chat completions endpoint.
type openRouterSummarizer struct {
	client *utils.HTTPClient

	url         string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int

	logger *logger.Logger
}

// NewOpenRouterSummarizer constructs a [Summarizer] from cfg. A missing API
// key is not an error here; Summarize reports [ErrMissingAPIKey] instead so
// the rest of the application keeps working without the feature.
func NewOpenRouterSummarizer(cfg config.AI, logger *logger.Logger) (Summarizer, error) {
	endpoint, err := normalizeURL(cfg.OpenRouterURL)
	if err != nil {
		return nil, fmt.Errorf("invalid openrouter url: %w", err)
	}

	client := utils.NewHTTPClient()
	client.SetTimeout(cfg.Timeout)

	return &openRouterSummarizer{
		client:      client,
		url:         endpoint,
		apiKey:      strings.TrimSpace(cfg.OpenRouterAPIKey),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      logger,
	}, nil
}

// Summarize implements [Summarizer].
func (s *openRouterSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if s.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(s.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(chatRequest{
			Model:       s.model,
			Messages:    []chatMessage{{Role: "user", Content: summaryPrompt + text}},
			Temperature: s.temperature,
			MaxTokens:   s.maxTokens,
		}).
		Post(s.url)
	if err != nil {
		return "", fmt.Errorf("summarize request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		s.logger.Err(err).Str("func", "*openRouterSummarizer.Summarize").Int("status", resp.StatusCode()).Msg("summarizer rejected request")
		return "", err
	}

	summary, err := extractSummary(resp.Body())
	if err != nil {
		return "", err
	}

	summary = strings.TrimSpace(StripSpecialTokens(summary))
	if summary == "" {
		return "", ErrEmptyResponse
	}
	return summary, nil
}

// extractSummary pulls the reply text out of a chat completions response.
// Besides choices[0].message.content it accepts the flatter shapes some
// compatible providers return.
func extractSummary(body []byte) (string, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode summarizer response: %w", err)
	}

	if choices, ok := payload["choices"].([]any); ok && len(choices) > 0 {
		if first, ok := choices[0].(map[string]any); ok {
			msg, ok := first["message"]
			if !ok || msg == nil {
				msg, ok = first["delta"]
			}
			if !ok || msg == nil {
				msg = first
			}

			switch m := msg.(type) {
			case map[string]any:
				if s, ok := m["content"].(string); ok {
					return s, nil
				}
				if s, ok := m["text"].(string); ok {
					return s, nil
				}
			case string:
				return m, nil
			}
		}
	}

	for _, key := range []string{"output", "result", "text", "response"} {
		switch v := payload[key].(type) {
		case string:
			return v, nil
		case []any:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok {
					return s, nil
				}
			}
		}
	}

	return "", ErrEmptyResponse
}
