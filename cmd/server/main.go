package main

import (
	"context"
	"fmt"
	"os"

	"github.com/seguikro/cotisations/internal/attachment"
	"github.com/seguikro/cotisations/internal/config"
	"github.com/seguikro/cotisations/internal/handler"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/internal/notifier"
	"github.com/seguikro/cotisations/internal/server"
	"github.com/seguikro/cotisations/internal/service"
	"github.com/seguikro/cotisations/internal/store"
	"github.com/seguikro/cotisations/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("cotisations-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	log = log.ForEnvironment(cfg.App.Environment)

	if cfg.App.Version == "" && buildVersion != "N/A" {
		cfg.App.Version = buildVersion
	}

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	notify := notifier.New(cfg.Notifier, log)
	defer notify.Close()

	attachments, err := attachment.New(cfg.Attachments, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error configuring attachments")
	}

	build := models.AppInfo{BuildDate: buildDate, BuildCommit: buildCommit}
	services, err := service.NewServices(storages, notify, attachments, *cfg, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(); err != nil {
		log.Err(err).Msg("server stopped")
		notify.Close()
		storages.Close()
		os.Exit(1)
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
