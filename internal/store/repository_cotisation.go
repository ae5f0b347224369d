package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/models"
)

type cotisationRepository struct {
	db  Querier
	ids IDGenerator
}

func NewCotisationRepository(db Querier, ids IDGenerator) CotisationRepository {
	return &cotisationRepository{db: db, ids: ids}
}

// Create inserts a cotisation. A second cotisation for the same member and
// period fails with [ErrCotisationAlreadyExists], which also resolves
// concurrent creations.
func (r *cotisationRepository) Create(ctx context.Context, c models.Cotisation) (models.Cotisation, error) {
	log := logger.FromContext(ctx)

	if c.Status == "" {
		c.Status = models.CotisationPending
	}

	row := r.db.QueryRowContext(ctx, createCotisation,
		r.ids.Generate(), c.Member, c.Amount, c.Month, c.Year, c.PaymentDate,
		c.PaymentMethod, c.PaymentReference, c.Status, c.Comment,
	)

	created, err := scanCotisation(row)
	if err != nil {
		log.Err(err).
			Str("func", "*cotisationRepository.Create").
			Str("member_id", c.Member).
			Msg("error creating cotisation")
		return models.Cotisation{}, translate(err, ErrCotisationNotFound)
	}

	return created, nil
}

func (r *cotisationRepository) FindByID(ctx context.Context, id string) (models.Cotisation, error) {
	log := logger.FromContext(ctx)

	c, err := scanCotisation(r.db.QueryRowContext(ctx, findCotisationByID, id))
	if err != nil {
		err = translate(err, ErrCotisationNotFound)
		if !errors.Is(err, ErrCotisationNotFound) {
			log.Err(err).Str("func", "*cotisationRepository.FindByID").Str("cotisation_id", id).Msg("error finding cotisation")
		}
		return models.Cotisation{}, err
	}

	return c, nil
}

func (r *cotisationRepository) ExistsForPeriod(ctx context.Context, memberID string, month models.Month, year int) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, cotisationExistsForPeriod, memberID, month, year).Scan(&exists); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*cotisationRepository.ExistsForPeriod").
			Str("member_id", memberID).
			Msg("error checking period")
		return false, translate(err, ErrUserNotFound)
	}
	return exists, nil
}

// Update writes every editable column of c, status included.
func (r *cotisationRepository) Update(ctx context.Context, c models.Cotisation) (models.Cotisation, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Update("cotisations").
		SetMap(map[string]any{
			"amount":            c.Amount,
			"month":             c.Month,
			"year":              c.Year,
			"payment_date":      c.PaymentDate,
			"payment_method":    c.PaymentMethod,
			"payment_reference": c.PaymentReference,
			"status":            c.Status,
			"comment":           c.Comment,
			"updated_at":        sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": c.ID}).
		Suffix("RETURNING " + cotisationColumns).
		ToSql()
	if err != nil {
		return models.Cotisation{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	updated, err := scanCotisation(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		log.Err(err).Str("func", "*cotisationRepository.Update").Str("cotisation_id", c.ID).Msg("error updating cotisation")
		return models.Cotisation{}, translate(err, ErrCotisationNotFound)
	}

	return updated, nil
}

func (r *cotisationRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, deleteCotisation, id)
	if err != nil {
		log.Err(err).Str("func", "*cotisationRepository.Delete").Str("cotisation_id", id).Msg("error deleting cotisation")
		return translate(err, ErrCotisationNotFound)
	}
	return expectAffected(res, ErrCotisationNotFound)
}

func scanCotisation(row rowScanner) (models.Cotisation, error) {
	var c models.Cotisation
	err := row.Scan(
		&c.ID,
		&c.Member,
		&c.Amount,
		&c.Month,
		&c.Year,
		&c.PaymentDate,
		&c.PaymentMethod,
		&c.PaymentReference,
		&c.Status,
		&c.Comment,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}
