package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/service"
	"github.com/MKhiriev/vaultscribe/internal/tui"
)

// UI is the interactive front end the App drives.
type UI interface {
	Run(ctx context.Context) error
}

type App struct {
	services *service.Services
	ui       UI
	logger   *logger.Logger
}

func NewApp(services *service.Services, ui UI, logger *logger.Logger) (*App, error) {
	if services == nil || services.SummaryService == nil {
		return nil, errNoServices
	}
	if ui == nil {
		return nil, errNoUI
	}
	return &App{services: services, ui: ui, logger: logger}, nil
}

// Run starts the summary workers, blocks in the UI and stops the workers on
// the way out. Quitting the UI is not an error.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.services.SummaryService.Start(ctx)
	defer a.services.SummaryService.Stop()

	a.logger.Info().Msg("client started")
	err := a.ui.Run(ctx)
	if errors.Is(err, tui.ErrUserQuit) {
		a.logger.Info().Msg("client stopped by user")
		return nil
	}
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
