// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/seguikro/cotisations/internal/config"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/internal/query"
	"github.com/seguikro/cotisations/internal/utils"
)

// Storages is the set of persistence components handed to the service
// layer.
//
// The embedded [Repositories] run each statement on its own connection
// from the pool. Operations writing several rows that must stay
// consistent go through [UnitOfWork]. [DocumentFinder] serves the
// generic list endpoints.
type Storages struct {
	Repositories

	Documents  DocumentFinder
	UnitOfWork UnitOfWork

	db *DB
}

// NewStorages connects to PostgreSQL, applies pending migrations and
// wires every repository onto the pool.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Debug().Msg("creating storages")

	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err = db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
		_ = db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return NewStoragesFromDB(db, utils.NewUUIDGenerator()), nil
}

// NewStoragesFromDB wires the storages onto an already connected db.
func NewStoragesFromDB(db *DB, ids IDGenerator) *Storages {
	return &Storages{
		Repositories: NewRepositories(db, ids),
		Documents:    query.NewFinder(db),
		UnitOfWork:   NewUnitOfWork(db, ids),
		db:           db,
	}
}

// Close releases the connection pool.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
