package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/vaultscribe/internal/config"
	"github.com/MKhiriev/vaultscribe/internal/handler"
	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/server"
	"github.com/MKhiriev/vaultscribe/internal/service"
	"github.com/MKhiriev/vaultscribe/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("vaultscribe-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = cfg.ValidateServer(); err != nil {
		log.Fatal().Err(err).Msg("invalid server configs")
	}

	// enrollment QR images are a terminal client feature; remote callers get
	// the provisioning URI instead
	cfg.Auth.EnrollmentImageDir = ""
	if cfg.App.Version == "" {
		cfg.App.Version = buildVersion
	}

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services, err := service.NewServices(storages, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(ctx); err != nil {
		log.Err(err).Msg("server stopped with error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
