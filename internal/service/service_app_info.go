package service

import (
	"context"

	"github.com/seguikro/cotisations/internal/config"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/models"
)

type appInfoService struct {
	info models.AppInfo

	logger *logger.Logger
}

// NewAppInfoService reports the configured version along with the build
// metadata of the running binary.
func NewAppInfoService(cfg config.App, build models.AppInfo, logger *logger.Logger) (AppInfoService, error) {
	if cfg.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		info: models.AppInfo{
			Version:     cfg.Version,
			Environment: cfg.Environment,
			BuildDate:   build.BuildDate,
			BuildCommit: build.BuildCommit,
		},
		logger: logger,
	}, nil
}

func (s *appInfoService) GetAppInfo(ctx context.Context) models.AppInfo {
	return s.info
}
