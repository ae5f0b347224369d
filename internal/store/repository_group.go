package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/models"
)

// groupRepository is the PostgreSQL-backed implementation of
// [GroupRepository] over the "groups" and "group_members" tables.
type groupRepository struct {
	db  Querier
	ids IDGenerator
}

func NewGroupRepository(db Querier, ids IDGenerator) GroupRepository {
	return &groupRepository{db: db, ids: ids}
}

func (r *groupRepository) Create(ctx context.Context, group models.Group) (models.Group, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createGroup,
		r.ids.Generate(), group.Name, group.Description, group.MonthlyAmount,
		group.Owner, group.Active, group.Regulation,
	)

	created, err := scanGroup(row)
	if err != nil {
		log.Err(err).Str("func", "*groupRepository.Create").Str("name", group.Name).Msg("error creating group")
		return models.Group{}, translate(err, ErrGroupNotFound)
	}
	created.Members = []string{}

	return created, nil
}

// FindByID loads the group row and its member list.
func (r *groupRepository) FindByID(ctx context.Context, id string) (models.Group, error) {
	log := logger.FromContext(ctx)

	group, err := scanGroup(r.db.QueryRowContext(ctx, findGroupByID, id))
	if err != nil {
		err = translate(err, ErrGroupNotFound)
		if !errors.Is(err, ErrGroupNotFound) {
			log.Err(err).Str("func", "*groupRepository.FindByID").Str("group_id", id).Msg("error finding group")
		}
		return models.Group{}, err
	}

	members, err := r.members(ctx, id)
	if err != nil {
		return models.Group{}, err
	}
	group.Members = members

	return group, nil
}

func (r *groupRepository) members(ctx context.Context, groupID string) ([]string, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, findGroupMembers, groupID)
	if err != nil {
		log.Err(err).Str("func", "*groupRepository.members").Str("group_id", groupID).Msg("error loading members")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	members := make([]string, 0)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		members = append(members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return members, nil
}

// Update writes the editable columns of group and returns the stored row
// with its members.
func (r *groupRepository) Update(ctx context.Context, group models.Group) (models.Group, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Update("groups").
		SetMap(map[string]any{
			"name":           group.Name,
			"description":    group.Description,
			"monthly_amount": group.MonthlyAmount,
			"active":         group.Active,
			"regulation":     group.Regulation,
			"updated_at":     sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": group.ID}).
		Suffix("RETURNING " + groupColumns).
		ToSql()
	if err != nil {
		return models.Group{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	updated, err := scanGroup(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		log.Err(err).Str("func", "*groupRepository.Update").Str("group_id", group.ID).Msg("error updating group")
		return models.Group{}, translate(err, ErrGroupNotFound)
	}

	members, err := r.members(ctx, updated.ID)
	if err != nil {
		return models.Group{}, err
	}
	updated.Members = members

	return updated, nil
}

// Delete removes the group. Memberships cascade and ledger entries keep
// their row with the group reference cleared.
func (r *groupRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, deleteGroup, id)
	if err != nil {
		log.Err(err).Str("func", "*groupRepository.Delete").Str("group_id", id).Msg("error deleting group")
		return translate(err, ErrGroupNotFound)
	}
	return expectAffected(res, ErrGroupNotFound)
}

// AddMember inserts a membership. A repeated insert is rejected by the
// composite primary key with [ErrAlreadyGroupMember].
func (r *groupRepository) AddMember(ctx context.Context, groupID, userID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, addGroupMember, groupID, userID); err != nil {
		log.Err(err).
			Str("func", "*groupRepository.AddMember").
			Str("group_id", groupID).
			Str("user_id", userID).
			Msg("error adding member")
		return translate(err, ErrGroupNotFound)
	}
	return nil
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, removeGroupMember, groupID, userID)
	if err != nil {
		log.Err(err).
			Str("func", "*groupRepository.RemoveMember").
			Str("group_id", groupID).
			Str("user_id", userID).
			Msg("error removing member")
		return translate(err, ErrNotGroupMember)
	}
	return expectAffected(res, ErrNotGroupMember)
}

func scanGroup(row rowScanner) (models.Group, error) {
	var group models.Group
	err := row.Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.MonthlyAmount,
		&group.Owner,
		&group.Active,
		&group.Regulation,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	return group, err
}
