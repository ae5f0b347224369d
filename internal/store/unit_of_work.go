package store

import (
	"context"
	"fmt"

	"github.com/seguikro/cotisations/internal/logger"
)

const maxTxAttempts = 3

// Repositories groups the repositories bound to one [Querier].
type Repositories struct {
	Users        UserRepository
	Groups       GroupRepository
	Cotisations  CotisationRepository
	Transactions TransactionRepository
}

// NewRepositories binds every repository to q.
func NewRepositories(q Querier, ids IDGenerator) Repositories {
	return Repositories{
		Users:        NewUserRepository(q, ids),
		Groups:       NewGroupRepository(q, ids),
		Cotisations:  NewCotisationRepository(q, ids),
		Transactions: NewTransactionRepository(q, ids),
	}
}

// txUnitOfWork runs callbacks in a database transaction and retries the
// whole callback when the classifier marks the failure as transient, e.g.
// a serialization failure or a deadlock.
type txUnitOfWork struct {
	db         *DB
	ids        IDGenerator
	classifier ErrorClassificator
}

func NewUnitOfWork(db *DB, ids IDGenerator) UnitOfWork {
	classifier := db.errorClassificator
	if classifier == nil {
		classifier = NewPostgresErrorClassifier()
	}
	return &txUnitOfWork{db: db, ids: ids, classifier: classifier}
}

func (u *txUnitOfWork) Do(ctx context.Context, fn func(repos Repositories) error) error {
	log := logger.FromContext(ctx)

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = u.run(ctx, fn)
		if err == nil || u.classifier.Classify(err) != Retryable || ctx.Err() != nil {
			return err
		}
		log.Warn().Err(err).
			Str("func", "*txUnitOfWork.Do").
			Int("attempt", attempt).
			Msg("retrying transaction")
	}
	return err
}

func (u *txUnitOfWork) run(ctx context.Context, fn func(repos Repositories) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err := fn(NewRepositories(tx, u.ids)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}
