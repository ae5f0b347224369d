package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/seguikro/cotisations/internal/attachment"
	"github.com/seguikro/cotisations/internal/config"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/internal/policy"
	"github.com/seguikro/cotisations/internal/query"
	"github.com/seguikro/cotisations/internal/store"
	"github.com/seguikro/cotisations/internal/utils"
	"github.com/seguikro/cotisations/internal/validators"
	"github.com/seguikro/cotisations/models"
)

type transactionService struct {
	transactions store.TransactionRepository
	cotisations  store.CotisationRepository
	groups       store.GroupRepository
	documents    store.DocumentFinder
	attachments  attachment.Store
	validator    validators.Validator

	maxAttachmentSize int64

	now    func() time.Time
	logger *logger.Logger
}

func NewTransactionService(
	transactions store.TransactionRepository,
	cotisations store.CotisationRepository,
	groups store.GroupRepository,
	documents store.DocumentFinder,
	attachments attachment.Store,
	validator validators.Validator,
	cfg config.Attachments,
	logger *logger.Logger,
) TransactionService {
	return &transactionService{
		transactions:      transactions,
		cotisations:       cotisations,
		groups:            groups,
		documents:         documents,
		attachments:       attachments,
		validator:         validator,
		maxAttachmentSize: cfg.MaxSize,
		now:               time.Now,
		logger:            logger,
	}
}

func (s *transactionService) List(ctx context.Context, params url.Values) (query.Page, error) {
	return s.documents.List(ctx, store.TransactionsCollection, params, memberContact, groupSummary, creatorName)
}

func (s *transactionService) Get(ctx context.Context, identity models.User, id string) (query.Document, error) {
	transaction, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = policy.Authorize(policy.CanViewTransaction(identity, transaction)); err != nil {
		return nil, err
	}

	return s.documents.FindOne(ctx, store.TransactionsCollection, id, memberContact, groupSummary, creatorName)
}

// Create records a ledger entry on behalf of the caller. A cotisation has
// at most one entry. Unless a status is given, entries linked to a
// cotisation mirror its status and other entries are Completed.
func (s *transactionService) Create(ctx context.Context, identity models.User, req models.TransactionRequest) (models.Transaction, error) {
	if err := s.validator.Validate(ctx, req); err != nil {
		return models.Transaction{}, err
	}

	transaction := mergeTransaction(models.Transaction{
		Date:      s.now(),
		CreatedBy: identity.ID,
		Status:    models.TransactionCompleted,
	}, req)

	if req.Cotisation != nil {
		cotisation, err := s.cotisations.FindByID(ctx, *req.Cotisation)
		if err != nil {
			return models.Transaction{}, err
		}
		if err = s.ensureUnlinked(ctx, cotisation.ID); err != nil {
			return models.Transaction{}, err
		}
		if req.Status == "" {
			transaction.Status = cotisation.Status.TransactionStatus()
		}
	}

	created, err := s.transactions.Create(ctx, transaction)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("created_by", identity.ID).Msg("error creating transaction")
		return models.Transaction{}, err
	}

	return created, nil
}

// Update edits an entry. The cotisation link is fixed at creation.
func (s *transactionService) Update(ctx context.Context, identity models.User, id string, req models.TransactionRequest) (models.Transaction, error) {
	if err := s.validator.Validate(ctx, req, validators.Provided(req)...); err != nil {
		return models.Transaction{}, err
	}
	if req.Cotisation != nil {
		return models.Transaction{}, validators.ValidationErrors{
			{Field: validators.FieldCotisation, Message: "cotisation link cannot be changed"},
		}
	}

	existing, err := s.managed(ctx, identity, id)
	if err != nil {
		return models.Transaction{}, err
	}

	return s.transactions.Update(ctx, mergeTransaction(existing, req))
}

func (s *transactionService) Delete(ctx context.Context, identity models.User, id string) error {
	if _, err := s.managed(ctx, identity, id); err != nil {
		return err
	}
	return s.transactions.Delete(ctx, id)
}

func (s *transactionService) ListByMember(ctx context.Context, identity models.User, memberID string) ([]query.Document, error) {
	if err := policy.Authorize(policy.CanActFor(identity, memberID)); err != nil {
		return nil, err
	}
	if !utils.IsUUID(memberID) {
		return nil, store.ErrUserNotFound
	}

	return s.documents.Find(ctx, store.TransactionsCollection, query.Spec{
		Conditions: []query.Condition{condition(store.TransactionsCollection, "member", query.OpEq, memberID)},
		Sort:       transactionsByDateDesc,
		Populate:   []query.Expansion{groupSummary},
	})
}

// ListByGroup is open to the group's members and administrators.
func (s *transactionService) ListByGroup(ctx context.Context, identity models.User, groupID string) ([]query.Document, error) {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err = policy.Authorize(policy.CanViewGroup(identity, group)); err != nil {
		return nil, err
	}

	return s.documents.Find(ctx, store.TransactionsCollection, query.Spec{
		Conditions: []query.Condition{condition(store.TransactionsCollection, "group", query.OpEq, groupID)},
		Sort:       transactionsByDateDesc,
		Populate:   []query.Expansion{memberName, creatorName},
	})
}

func (s *transactionService) Report(ctx context.Context, req models.TransactionReportRequest) (TransactionReport, error) {
	if err := s.validator.Validate(ctx, req); err != nil {
		return TransactionReport{}, err
	}

	c := store.TransactionsCollection
	var conds []query.Condition
	if req.StartDate != nil {
		conds = append(conds, condition(c, "date", query.OpGte, *req.StartDate))
	}
	if req.EndDate != nil {
		conds = append(conds, condition(c, "date", query.OpLte, *req.EndDate))
	}
	if req.Type != "" {
		conds = append(conds, condition(c, "type", query.OpEq, req.Type))
	}
	if req.Category != "" {
		conds = append(conds, condition(c, "category", query.OpEq, req.Category))
	}
	if req.Group != "" {
		conds = append(conds, condition(c, "group", query.OpEq, req.Group))
	}

	docs, err := s.documents.Find(ctx, c, query.Spec{
		Conditions: conds,
		Sort:       transactionsByDateDesc,
		Populate:   []query.Expansion{memberName, groupSummary, creatorName},
	})
	if err != nil {
		return TransactionReport{}, err
	}

	return newTransactionReport(docs), nil
}

// UploadAttachment stores a receipt and links its URL to the entry.
func (s *transactionService) UploadAttachment(ctx context.Context, identity models.User, id string, file AttachmentFile) (models.Transaction, error) {
	if _, err := s.managed(ctx, identity, id); err != nil {
		return models.Transaction{}, err
	}

	if err := attachment.CheckFile(file.Name, file.Size, s.maxAttachmentSize); err != nil {
		return models.Transaction{}, err
	}

	location, err := s.attachments.Upload(ctx, file.Name, file.Content)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("error uploading attachment: %w", err)
	}

	return s.transactions.SetAttachment(ctx, id, location)
}

func (s *transactionService) ensureUnlinked(ctx context.Context, cotisationID string) error {
	_, err := s.transactions.FindByCotisation(ctx, cotisationID)
	switch {
	case err == nil:
		return ErrCotisationLinked
	case errors.Is(err, store.ErrTransactionNotFound):
		return nil
	default:
		return fmt.Errorf("error checking cotisation entry: %w", err)
	}
}

// managed loads an entry the caller may modify.
func (s *transactionService) managed(ctx context.Context, identity models.User, id string) (models.Transaction, error) {
	transaction, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return models.Transaction{}, err
	}
	if err = policy.Authorize(policy.CanManage(identity, transaction)); err != nil {
		return models.Transaction{}, err
	}
	return transaction, nil
}

func mergeTransaction(t models.Transaction, req models.TransactionRequest) models.Transaction {
	if req.Type != "" {
		t.Type = models.TransactionType(req.Type)
	}
	if req.Amount != nil {
		t.Amount = *req.Amount
	}
	if req.Description != "" {
		t.Description = req.Description
	}
	if req.Date != nil {
		t.Date = *req.Date
	}
	if req.Category != "" {
		t.Category = models.TransactionCategory(req.Category)
	}
	if req.Cotisation != nil {
		t.Cotisation = req.Cotisation
	}
	if req.Member != nil {
		t.Member = req.Member
	}
	if req.Group != nil {
		t.Group = req.Group
	}
	if req.Status != "" {
		t.Status = models.TransactionStatus(req.Status)
	}
	return t
}
