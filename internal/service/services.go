// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/seguikro/cotisations/internal/attachment"
	"github.com/seguikro/cotisations/internal/config"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/internal/notifier"
	"github.com/seguikro/cotisations/internal/store"
	"github.com/seguikro/cotisations/internal/validators"
	"github.com/seguikro/cotisations/models"
)

type Services struct {
	AppInfoService     AppInfoService
	AuthService        AuthService
	CotisationService  CotisationService
	GroupService       GroupService
	TransactionService TransactionService
}

// NewServices wires every domain service onto the given storages and
// out-of-band collaborators.
func NewServices(
	storages *store.Storages,
	notify notifier.Notifier,
	attachments attachment.Store,
	cfg config.StructuredConfig,
	build models.AppInfo,
	logger *logger.Logger,
) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	validator := validators.NewRequestValidator()

	return &Services{
		AppInfoService: appInfoService,
		AuthService:    NewAuthService(storages.Users, notify, validator, cfg.App, logger),
		CotisationService: NewCotisationService(
			storages.Cotisations, storages.Users, storages.Documents, storages.UnitOfWork, validator, logger,
		),
		GroupService: NewGroupService(
			storages.Groups, storages.Users, storages.Documents, storages.UnitOfWork, validator, logger,
		),
		TransactionService: NewTransactionService(
			storages.Transactions, storages.Cotisations, storages.Groups, storages.Documents,
			attachments, validator, cfg.Attachments, logger,
		),
	}, nil
}
