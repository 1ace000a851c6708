// Package tui is the VaultScribe terminal client. It drives the
// authentication workflows in-process and offers summarization once a
// session exists.
//
// The UI is a [RootModel] routing between pages. The session token lives in
// the root model only and is handed to the pages that need it.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/service"
	"github.com/MKhiriev/vaultscribe/models"
)

var ErrUserQuit = errors.New("user quit")

type TUI struct {
	auth      service.AuthService
	summaries service.SummaryService
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(services *service.Services, buildInfo models.AppBuildInfo, logger *logger.Logger) (*TUI, error) {
	if services == nil || services.AuthService == nil || services.SummaryService == nil {
		return nil, errNoServices
	}
	return &TUI{
		auth:      services.AuthService,
		summaries: services.SummaryService,
		buildInfo: buildInfo,
		logger:    logger,
	}, nil
}

// NewRoot builds the page set with the menu active.
func (t *TUI) NewRoot(ctx context.Context) RootModel {
	pages := map[string]tea.Model{
		pageMenu:         NewMenuModel(),
		pageLogin:        NewLoginModel(ctx, t.auth),
		pageSecondFactor: NewSecondFactorModel(ctx, t.auth),
		pageSignup:       NewSignupModel(ctx, t.auth),
		pageEnroll:       NewEnrollModel(ctx, t.auth),
		pageReset:        NewResetModel(ctx, t.auth),
		pageHome:         NewHomeModel(ctx, t.auth, t.summaries, t.logger),
	}
	return NewRootModel(pages, pageMenu, t.buildInfo)
}

// Run blocks until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	finalModel, err := tea.NewProgram(t.NewRoot(ctx), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}
	return nil
}
