package http

import (
	"github.com/seguikro/cotisations/internal/config"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/internal/service"
)

type Handler struct {
	services *service.Services

	app    config.App
	server config.Server

	// maxUploadSize bounds attachment request bodies.
	maxUploadSize int64

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:      services,
		app:           cfg.App,
		server:        cfg.Server,
		maxUploadSize: cfg.Attachments.MaxSize,
		logger:        logger,
	}
}
