package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/internal/policy"
	"github.com/seguikro/cotisations/internal/query"
	"github.com/seguikro/cotisations/internal/store"
	"github.com/seguikro/cotisations/internal/utils"
	"github.com/seguikro/cotisations/internal/validators"
	"github.com/seguikro/cotisations/models"
)

type groupService struct {
	groups    store.GroupRepository
	users     store.UserRepository
	documents store.DocumentFinder
	uow       store.UnitOfWork
	validator validators.Validator

	logger *logger.Logger
}

func NewGroupService(
	groups store.GroupRepository,
	users store.UserRepository,
	documents store.DocumentFinder,
	uow store.UnitOfWork,
	validator validators.Validator,
	logger *logger.Logger,
) GroupService {
	return &groupService{
		groups:    groups,
		users:     users,
		documents: documents,
		uow:       uow,
		validator: validator,
		logger:    logger,
	}
}

func (s *groupService) List(ctx context.Context, params url.Values) (query.Page, error) {
	return s.documents.List(ctx, store.GroupsCollection, params, ownerName, membersName)
}

func (s *groupService) Get(ctx context.Context, identity models.User, id string) (query.Document, error) {
	group, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = policy.Authorize(policy.CanViewGroup(identity, group)); err != nil {
		return nil, err
	}

	return s.documents.FindOne(ctx, store.GroupsCollection, id, ownerContact, membersFull)
}

// Create inserts the group owned by the caller and the owner's membership
// in one transaction.
func (s *groupService) Create(ctx context.Context, identity models.User, req models.GroupRequest) (models.Group, error) {
	if err := s.validator.Validate(ctx, req); err != nil {
		return models.Group{}, err
	}

	group := mergeGroup(models.Group{Owner: identity.ID, Active: true}, req)

	var created models.Group
	err := s.uow.Do(ctx, func(repos store.Repositories) error {
		var err error
		if created, err = repos.Groups.Create(ctx, group); err != nil {
			return err
		}
		return repos.Groups.AddMember(ctx, created.ID, identity.ID)
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("name", req.Name).Msg("error creating group")
		return models.Group{}, err
	}
	created.Members = []string{identity.ID}

	return created, nil
}

func (s *groupService) Update(ctx context.Context, identity models.User, id string, req models.GroupRequest) (models.Group, error) {
	if err := s.validator.Validate(ctx, req, validators.Provided(req)...); err != nil {
		return models.Group{}, err
	}

	existing, err := s.managed(ctx, identity, id)
	if err != nil {
		return models.Group{}, err
	}

	return s.groups.Update(ctx, mergeGroup(existing, req))
}

func (s *groupService) Delete(ctx context.Context, identity models.User, id string) error {
	if _, err := s.managed(ctx, identity, id); err != nil {
		return err
	}
	return s.groups.Delete(ctx, id)
}

func (s *groupService) AddMember(ctx context.Context, identity models.User, groupID, userID string) (models.Group, error) {
	group, err := s.managed(ctx, identity, groupID)
	if err != nil {
		return models.Group{}, err
	}

	if _, err = s.users.FindByID(ctx, userID); err != nil {
		return models.Group{}, err
	}
	if group.HasMember(userID) {
		return models.Group{}, store.ErrAlreadyGroupMember
	}

	if err = s.groups.AddMember(ctx, groupID, userID); err != nil {
		return models.Group{}, fmt.Errorf("error adding member: %w", err)
	}

	return s.groups.FindByID(ctx, groupID)
}

// RemoveMember lets the owner or an administrator remove anyone but the
// owner, and any member remove themselves.
func (s *groupService) RemoveMember(ctx context.Context, identity models.User, groupID, userID string) (models.Group, error) {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return models.Group{}, err
	}
	if err = policy.Authorize(policy.CanRemoveMember(identity, group, userID)); err != nil {
		return models.Group{}, err
	}
	if userID == group.Owner {
		return models.Group{}, ErrCannotRemoveOwner
	}
	if !group.HasMember(userID) {
		return models.Group{}, store.ErrNotGroupMember
	}

	if err = s.groups.RemoveMember(ctx, groupID, userID); err != nil {
		return models.Group{}, fmt.Errorf("error removing member: %w", err)
	}

	return s.groups.FindByID(ctx, groupID)
}

func (s *groupService) ListByMember(ctx context.Context, identity models.User, memberID string) ([]query.Document, error) {
	if err := policy.Authorize(policy.CanActFor(identity, memberID)); err != nil {
		return nil, err
	}
	if !utils.IsUUID(memberID) {
		return nil, store.ErrUserNotFound
	}

	return s.documents.Find(ctx, store.GroupsCollection, query.Spec{
		Conditions: []query.Condition{condition(store.GroupsCollection, "members", query.OpEq, memberID)},
		Populate:   []query.Expansion{ownerName},
	})
}

// managed loads a group the caller may modify.
func (s *groupService) managed(ctx context.Context, identity models.User, id string) (models.Group, error) {
	group, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return models.Group{}, err
	}
	if err = policy.Authorize(policy.CanManage(identity, group)); err != nil {
		return models.Group{}, err
	}
	return group, nil
}

func mergeGroup(g models.Group, req models.GroupRequest) models.Group {
	if req.Name != "" {
		g.Name = req.Name
	}
	if req.Description != "" {
		g.Description = req.Description
	}
	if req.MonthlyAmount != nil {
		g.MonthlyAmount = *req.MonthlyAmount
	}
	if req.Active != nil {
		g.Active = *req.Active
	}
	if req.Regulation != nil {
		g.Regulation = *req.Regulation
	}
	return g
}
