package service

import (
	"context"
	"testing"

	"github.com/seguikro/cotisations/internal/config"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// NewAppInfoService
// ─────────────────────────────────────────────

func TestNewAppInfoService_Success(t *testing.T) {
	svc, err := NewAppInfoService(config.App{Version: "1.0.0"}, models.AppInfo{}, logger.Nop())

	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestNewAppInfoService_EmptyVersion_ReturnsError(t *testing.T) {
	svc, err := NewAppInfoService(config.App{}, models.AppInfo{BuildCommit: "abc"}, logger.Nop())

	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrVersionIsNotSpecified)
}

// ─────────────────────────────────────────────
// GetAppInfo
// ─────────────────────────────────────────────

func TestGetAppInfo_CombinesConfigAndBuild(t *testing.T) {
	cfg := config.App{Version: "1.2.0", Environment: config.EnvProduction}
	build := models.AppInfo{Version: "ignored", BuildDate: "2026-10-01", BuildCommit: "4f2a9c1"}

	svc, err := NewAppInfoService(cfg, build, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, models.AppInfo{
		Version:     "1.2.0",
		Environment: "production",
		BuildDate:   "2026-10-01",
		BuildCommit: "4f2a9c1",
	}, svc.GetAppInfo(context.Background()))
}

func TestGetAppInfo_CancelledContext_StillReturnsInfo(t *testing.T) {
	svc, err := NewAppInfoService(config.App{Version: "1.0.0"}, models.AppInfo{}, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, "1.0.0", svc.GetAppInfo(ctx).Version)
}
