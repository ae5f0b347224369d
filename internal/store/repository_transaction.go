package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/models"
)

type transactionRepository struct {
	db  Querier
	ids IDGenerator
}

func NewTransactionRepository(db Querier, ids IDGenerator) TransactionRepository {
	return &transactionRepository{db: db, ids: ids}
}

func (r *transactionRepository) Create(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	log := logger.FromContext(ctx)

	if t.Status == "" {
		t.Status = models.TransactionCompleted
	}

	row := r.db.QueryRowContext(ctx, createTransaction,
		r.ids.Generate(), t.Type, t.Amount, t.Description, t.Date, t.Category,
		t.Cotisation, t.Member, t.Group, t.CreatedBy, t.Attachment, t.Status,
	)

	created, err := scanTransaction(row)
	if err != nil {
		log.Err(err).Str("func", "*transactionRepository.Create").Msg("error creating transaction")
		return models.Transaction{}, translate(err, ErrTransactionNotFound)
	}

	return created, nil
}

func (r *transactionRepository) FindByID(ctx context.Context, id string) (models.Transaction, error) {
	return r.findOne(ctx, "*transactionRepository.FindByID", findTransactionByID, id)
}

func (r *transactionRepository) FindByCotisation(ctx context.Context, cotisationID string) (models.Transaction, error) {
	return r.findOne(ctx, "*transactionRepository.FindByCotisation", findTransactionByCotisation, cotisationID)
}

func (r *transactionRepository) findOne(ctx context.Context, fn, query string, args ...any) (models.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		err = translate(err, ErrTransactionNotFound)
		if !errors.Is(err, ErrTransactionNotFound) {
			logger.FromContext(ctx).Err(err).Str("func", fn).Msg("error finding transaction")
		}
		return models.Transaction{}, err
	}
	return t, nil
}

// Update writes the editable columns of t. The cotisation link, the
// creator and the attachment are not editable here.
func (r *transactionRepository) Update(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Update("transactions").
		SetMap(map[string]any{
			"type":             t.Type,
			"amount":           t.Amount,
			"description":      t.Description,
			"transaction_date": t.Date,
			"category":         t.Category,
			"member_id":        t.Member,
			"group_id":         t.Group,
			"status":           t.Status,
			"updated_at":       sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": t.ID}).
		Suffix("RETURNING " + transactionColumns).
		ToSql()
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	updated, err := scanTransaction(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		log.Err(err).Str("func", "*transactionRepository.Update").Str("transaction_id", t.ID).Msg("error updating transaction")
		return models.Transaction{}, translate(err, ErrTransactionNotFound)
	}

	return updated, nil
}

// PatchByCotisation builds its SET clause from the non-nil fields of patch.
// An empty patch touches nothing.
func (r *transactionRepository) PatchByCotisation(ctx context.Context, cotisationID string, patch models.TransactionPatch) (int64, error) {
	log := logger.FromContext(ctx)

	set := make(map[string]any, 4)
	if patch.Amount != nil {
		set["amount"] = *patch.Amount
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if len(set) == 0 {
		return 0, nil
	}
	set["updated_at"] = sq.Expr("NOW()")

	query, args, err := psql.Update("transactions").
		SetMap(set).
		Where(sq.Eq{"cotisation_id": cotisationID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*transactionRepository.PatchByCotisation").
			Str("cotisation_id", cotisationID).
			Msg("error patching companion transaction")
		return 0, translate(err, ErrTransactionNotFound)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return n, nil
}

func (r *transactionRepository) SetAttachment(ctx context.Context, id string, url string) (models.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx, setTransactionAttachment, id, url))
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*transactionRepository.SetAttachment").
			Str("transaction_id", id).
			Msg("error saving attachment")
		return models.Transaction{}, translate(err, ErrTransactionNotFound)
	}
	return t, nil
}

func (r *transactionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*transactionRepository.Delete").
			Str("transaction_id", id).
			Msg("error deleting transaction")
		return translate(err, ErrTransactionNotFound)
	}
	return expectAffected(res, ErrTransactionNotFound)
}

// DeleteByCotisation removes the companion entries of a cotisation. Having
// none is not an error.
func (r *transactionRepository) DeleteByCotisation(ctx context.Context, cotisationID string) error {
	if _, err := r.db.ExecContext(ctx, deleteTransactionsByCotisation, cotisationID); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*transactionRepository.DeleteByCotisation").
			Str("cotisation_id", cotisationID).
			Msg("error deleting companion transactions")
		return translate(err, ErrTransactionNotFound)
	}
	return nil
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var (
		t                                      models.Transaction
		cotisation, member, group, attachment sql.NullString
	)

	err := row.Scan(
		&t.ID,
		&t.Type,
		&t.Amount,
		&t.Description,
		&t.Date,
		&t.Category,
		&cotisation,
		&member,
		&group,
		&t.CreatedBy,
		&attachment,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return models.Transaction{}, err
	}

	t.Cotisation = nullString(cotisation)
	t.Member = nullString(member)
	t.Group = nullString(group)
	t.Attachment = nullString(attachment)

	return t, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
