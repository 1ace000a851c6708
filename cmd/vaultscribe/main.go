package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/vaultscribe/internal/client"
	"github.com/MKhiriev/vaultscribe/internal/config"
	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/service"
	"github.com/MKhiriev/vaultscribe/internal/store"
	"github.com/MKhiriev/vaultscribe/internal/tui"
	"github.com/MKhiriev/vaultscribe/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the terminal UI
	log := logger.NewFileLogger("vaultscribe", cfg.App.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Err(err).Msg("create storages")
		fmt.Fprintf(os.Stderr, "cannot open the account database: %v\n", err)
		os.Exit(1)
	}
	defer storages.Close()

	services, err := service.NewServices(storages, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create services")
	}

	ui, err := tui.New(services, buildInfo(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	app, err := client.NewApp(services, ui, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		log.Err(err).Msg("client run error")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildInfo() models.AppBuildInfo {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}
	return models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
}
