package handler

import (
	"github.com/seguikro/cotisations/internal/config"
	"github.com/seguikro/cotisations/internal/handler/http"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.Server.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{HTTP: http.NewHandler(services, cfg, logger)}, nil
}
