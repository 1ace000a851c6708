package service

import (
	"fmt"

	"github.com/MKhiriev/vaultscribe/internal/adapter"
	"github.com/MKhiriev/vaultscribe/internal/config"
	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/store"
)

type Services struct {
	AuthService    AuthService
	SummaryService SummaryService
}

// NewServices wires every service over storages. The summary worker pool
// is not started; call SummaryService.Start.
func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	authService, err := NewAuthService(storages, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	summarizer, err := adapter.NewOpenRouterSummarizer(cfg.AI, logger)
	if err != nil {
		return nil, fmt.Errorf("summarizer: %w", err)
	}
	transcriber, err := adapter.NewHTTPTranscriber(cfg.AI, logger)
	if err != nil {
		return nil, fmt.Errorf("transcriber: %w", err)
	}

	return &Services{
		AuthService:    authService,
		SummaryService: NewSummaryService(transcriber, summarizer, cfg.Workers, logger),
	}, nil
}
