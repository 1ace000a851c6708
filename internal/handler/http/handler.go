package http

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MKhiriev/vaultscribe/internal/config"
	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/service"
	"github.com/MKhiriev/vaultscribe/internal/utils"
)

type Handler struct {
	services *service.Services
	validate *validator.Validate
	metrics  *metrics
	traceIDs *utils.UUIDGenerator

	version        string
	rateLimit      int
	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		metrics:        newMetrics(),
		traceIDs:       utils.NewUUIDGenerator(),
		version:        cfg.App.Version,
		rateLimit:      cfg.Server.RateLimit,
		requestTimeout: cfg.Server.RequestTimeout,
		logger:         logger,
	}
}
