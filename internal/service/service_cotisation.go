package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/internal/policy"
	"github.com/seguikro/cotisations/internal/query"
	"github.com/seguikro/cotisations/internal/store"
	"github.com/seguikro/cotisations/internal/utils"
	"github.com/seguikro/cotisations/internal/validators"
	"github.com/seguikro/cotisations/models"
)

type cotisationService struct {
	cotisations store.CotisationRepository
	users       store.UserRepository
	documents   store.DocumentFinder
	uow         store.UnitOfWork
	validator   validators.Validator

	now    func() time.Time
	logger *logger.Logger
}

func NewCotisationService(
	cotisations store.CotisationRepository,
	users store.UserRepository,
	documents store.DocumentFinder,
	uow store.UnitOfWork,
	validator validators.Validator,
	logger *logger.Logger,
) CotisationService {
	return &cotisationService{
		cotisations: cotisations,
		users:       users,
		documents:   documents,
		uow:         uow,
		validator:   validator,
		now:         time.Now,
		logger:      logger,
	}
}

func (s *cotisationService) List(ctx context.Context, params url.Values) (query.Page, error) {
	return s.documents.List(ctx, store.CotisationsCollection, params, memberContact)
}

func (s *cotisationService) Get(ctx context.Context, identity models.User, id string) (query.Document, error) {
	cotisation, err := s.cotisations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = policy.Authorize(policy.CanViewCotisation(identity, cotisation)); err != nil {
		return nil, err
	}

	return s.documents.FindOne(ctx, store.CotisationsCollection, id, memberContact)
}

// Create records a cotisation of the caller together with its companion
// Pending ledger entry, both in one transaction.
func (s *cotisationService) Create(ctx context.Context, identity models.User, req models.CotisationRequest) (models.Cotisation, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, req); err != nil {
		return models.Cotisation{}, err
	}

	month, _ := models.ParseMonth(req.Month)
	cotisation := models.Cotisation{
		Member:        identity.ID,
		Amount:        *req.Amount,
		Month:         month,
		Year:          *req.Year,
		PaymentDate:   s.now(),
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		Status:        models.CotisationPending,
	}
	if req.PaymentDate != nil {
		cotisation.PaymentDate = *req.PaymentDate
	}
	if req.PaymentReference != nil {
		cotisation.PaymentReference = *req.PaymentReference
	}
	if req.Comment != nil {
		cotisation.Comment = *req.Comment
	}

	exists, err := s.cotisations.ExistsForPeriod(ctx, identity.ID, month, cotisation.Year)
	if err != nil {
		return models.Cotisation{}, fmt.Errorf("error checking existing cotisation: %w", err)
	}
	if exists {
		return models.Cotisation{}, fmt.Errorf("%w for %s %d", store.ErrCotisationAlreadyExists, month, cotisation.Year)
	}

	var created models.Cotisation
	err = s.uow.Do(ctx, func(repos store.Repositories) error {
		var err error
		created, err = repos.Cotisations.Create(ctx, cotisation)
		if err != nil {
			return err
		}

		_, err = repos.Transactions.Create(ctx, models.Transaction{
			Type:        models.TransactionInflow,
			Amount:      created.Amount,
			Description: models.DuesDescription(identity, created.Month, created.Year),
			Date:        created.PaymentDate,
			Category:    models.CategoryDues,
			Cotisation:  &created.ID,
			Member:      &identity.ID,
			CreatedBy:   identity.ID,
			Status:      created.Status.TransactionStatus(),
		})
		return err
	})
	if err != nil {
		log.Err(err).Str("member_id", identity.ID).Msg("error creating cotisation")
		return models.Cotisation{}, err
	}

	return created, nil
}

// Update edits a Pending cotisation. The companion entry follows amount
// and period changes in the same transaction.
func (s *cotisationService) Update(ctx context.Context, identity models.User, id string, req models.CotisationRequest) (models.Cotisation, error) {
	if err := s.validator.Validate(ctx, req, validators.Provided(req)...); err != nil {
		return models.Cotisation{}, err
	}

	existing, err := s.cotisations.FindByID(ctx, id)
	if err != nil {
		return models.Cotisation{}, err
	}
	if err = policy.Authorize(policy.CanManage(identity, existing)); err != nil {
		return models.Cotisation{}, err
	}
	if !existing.IsPending() {
		return models.Cotisation{}, ErrCotisationNotPending
	}

	updated := mergeCotisation(existing, req)

	var patch models.TransactionPatch
	if updated.Amount != existing.Amount {
		patch.Amount = &updated.Amount
	}
	if patch.Amount != nil || updated.Month != existing.Month || updated.Year != existing.Year {
		member, err := s.member(ctx, identity, existing.Member)
		if err != nil {
			return models.Cotisation{}, err
		}
		description := models.DuesDescription(member, updated.Month, updated.Year)
		patch.Description = &description
	}

	var saved models.Cotisation
	err = s.uow.Do(ctx, func(repos store.Repositories) error {
		var err error
		if saved, err = repos.Cotisations.Update(ctx, updated); err != nil {
			return err
		}
		_, err = repos.Transactions.PatchByCotisation(ctx, id, patch)
		return err
	})
	if err != nil {
		return models.Cotisation{}, err
	}

	return saved, nil
}

// Delete removes a cotisation and its companion entry. Members may only
// delete their own Pending cotisations.
func (s *cotisationService) Delete(ctx context.Context, identity models.User, id string) error {
	existing, err := s.cotisations.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err = policy.Authorize(policy.CanManage(identity, existing)); err != nil {
		return err
	}
	if !existing.IsPending() && !identity.IsAdmin() {
		return ErrCotisationNotPending
	}

	return s.uow.Do(ctx, func(repos store.Repositories) error {
		if err := repos.Transactions.DeleteByCotisation(ctx, id); err != nil {
			return err
		}
		return repos.Cotisations.Delete(ctx, id)
	})
}

// SetStatus changes the review state and mirrors it onto the companion
// entry atomically.
func (s *cotisationService) SetStatus(ctx context.Context, id string, req models.CotisationStatusRequest) (models.Cotisation, error) {
	if err := s.validator.Validate(ctx, req); err != nil {
		return models.Cotisation{}, err
	}
	status, _ := models.ParseCotisationStatus(req.Status)

	existing, err := s.cotisations.FindByID(ctx, id)
	if err != nil {
		return models.Cotisation{}, err
	}

	existing.Status = status
	if req.Comment != nil {
		existing.Comment = *req.Comment
	}
	mirrored := status.TransactionStatus()

	var saved models.Cotisation
	err = s.uow.Do(ctx, func(repos store.Repositories) error {
		var err error
		if saved, err = repos.Cotisations.Update(ctx, existing); err != nil {
			return err
		}
		_, err = repos.Transactions.PatchByCotisation(ctx, id, models.TransactionPatch{Status: &mirrored})
		return err
	})
	if err != nil {
		return models.Cotisation{}, err
	}

	return saved, nil
}

func (s *cotisationService) ListByMember(ctx context.Context, identity models.User, memberID string) ([]query.Document, error) {
	if err := policy.Authorize(policy.CanActFor(identity, memberID)); err != nil {
		return nil, err
	}
	if !utils.IsUUID(memberID) {
		return nil, store.ErrUserNotFound
	}

	return s.documents.Find(ctx, store.CotisationsCollection, query.Spec{
		Conditions: []query.Condition{condition(store.CotisationsCollection, "member", query.OpEq, memberID)},
		Sort:       cotisationsByPeriodDesc,
	})
}

func (s *cotisationService) ListByPeriod(ctx context.Context, month, year string) ([]query.Document, error) {
	m, err := models.ParseMonth(month)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPeriod, err)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return nil, fmt.Errorf("%w: year %q", ErrInvalidPeriod, year)
	}

	return s.documents.Find(ctx, store.CotisationsCollection, query.Spec{
		Conditions: []query.Condition{
			condition(store.CotisationsCollection, "month", query.OpEq, int64(m)),
			condition(store.CotisationsCollection, "year", query.OpEq, int64(y)),
		},
		Populate: []query.Expansion{memberContact},
	})
}

func (s *cotisationService) Report(ctx context.Context, req models.CotisationReportRequest) (CotisationReport, error) {
	if err := s.validator.Validate(ctx, req); err != nil {
		return CotisationReport{}, err
	}

	c := store.CotisationsCollection
	var conds []query.Condition
	if req.Month != "" {
		m, _ := models.ParseMonth(req.Month)
		conds = append(conds, condition(c, "month", query.OpEq, int64(m)))
	}
	if req.Year != nil {
		conds = append(conds, condition(c, "year", query.OpEq, int64(*req.Year)))
	}
	if req.Status != "" {
		conds = append(conds, condition(c, "status", query.OpEq, req.Status))
	}
	if req.Member != "" {
		conds = append(conds, condition(c, "member", query.OpEq, req.Member))
	}

	docs, err := s.documents.Find(ctx, c, query.Spec{Conditions: conds, Populate: []query.Expansion{memberContact}})
	if err != nil {
		return CotisationReport{}, err
	}

	return newCotisationReport(docs), nil
}

// member returns the owner of a cotisation, reusing identity when the
// caller is that member.
func (s *cotisationService) member(ctx context.Context, identity models.User, memberID string) (models.User, error) {
	if identity.ID == memberID {
		return identity, nil
	}
	member, err := s.users.FindByID(ctx, memberID)
	if err != nil && !errors.Is(err, store.ErrUserNotFound) {
		return models.User{}, err
	}
	return member, nil
}

func mergeCotisation(c models.Cotisation, req models.CotisationRequest) models.Cotisation {
	if req.Amount != nil {
		c.Amount = *req.Amount
	}
	if req.Month != "" {
		c.Month, _ = models.ParseMonth(req.Month)
	}
	if req.Year != nil {
		c.Year = *req.Year
	}
	if req.PaymentDate != nil {
		c.PaymentDate = *req.PaymentDate
	}
	if req.PaymentMethod != "" {
		c.PaymentMethod = models.PaymentMethod(req.PaymentMethod)
	}
	if req.PaymentReference != nil {
		c.PaymentReference = *req.PaymentReference
	}
	if req.Comment != nil {
		c.Comment = *req.Comment
	}
	return c
}
