package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/models"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles account creation, lookup and credential updates against the
// "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	db  Querier
	ids IDGenerator
}

// NewUserRepository constructs a [UserRepository] running its statements
// on db, which may be a pool or an open transaction.
func NewUserRepository(db Querier, ids IDGenerator) UserRepository {
	return &userRepository{db: db, ids: ids}
}

// Create persists a new user and returns the stored row. The identifier is
// generated here; role, password hash and active flag are taken from user.
//
// Error handling:
//   - unique violation on users_email_key → [ErrEmailAlreadyExists].
//   - any other driver-level error → wrapped [ErrExecutingQuery].
func (r *userRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if user.Role == "" {
		user.Role = models.RoleMember
	}

	row := r.db.QueryRowContext(ctx, createUser,
		r.ids.Generate(), user.Name, user.Surname, user.Email, user.Phone, user.Address,
		user.Role, user.PasswordHash, user.Active,
	)

	created, err := scanUser(row)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Create").Msg("error creating user")
		return models.User{}, translate(err, ErrUserNotFound)
	}

	return created, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindByID", findUserByID, id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindByEmail", findUserByEmail, email)
}

func (r *userRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindByResetToken", findUserByResetToken, tokenHash, now)
}

func (r *userRepository) findOne(ctx context.Context, fn, query string, args ...any) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		err = translate(err, ErrUserNotFound)
		if !errors.Is(err, ErrUserNotFound) {
			log.Err(err).Str("func", fn).Msg("error finding user")
		}
		return models.User{}, err
	}

	return user, nil
}

// UpdateProfile overwrites the non-empty fields of update.
func (r *userRepository) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	b := psql.Update("users").Set("updated_at", sq.Expr("NOW()"))
	if update.Name != "" {
		b = b.Set("name", update.Name)
	}
	if update.Surname != "" {
		b = b.Set("surname", update.Surname)
	}
	if update.Phone != "" {
		b = b.Set("phone", update.Phone)
	}
	if update.Address != "" {
		b = b.Set("address", update.Address)
	}

	query, args, err := b.Where(sq.Eq{"id": id}).Suffix("RETURNING " + userColumns).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateProfile").Str("user_id", id).Msg("error updating profile")
		return models.User{}, translate(err, ErrUserNotFound)
	}

	return user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	return r.exec(ctx, "*userRepository.UpdatePassword", updateUserPassword, id, passwordHash)
}

func (r *userRepository) SetResetToken(ctx context.Context, id string, tokenHash string, expire time.Time) error {
	return r.exec(ctx, "*userRepository.SetResetToken", setUserResetToken, id, tokenHash, expire)
}

func (r *userRepository) ClearResetToken(ctx context.Context, id string) error {
	return r.exec(ctx, "*userRepository.ClearResetToken", clearUserResetToken, id)
}

func (r *userRepository) exec(ctx context.Context, fn, query string, args ...any) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("error updating user")
		return translate(err, ErrUserNotFound)
	}
	return expectAffected(res, ErrUserNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		user        models.User
		resetToken  sql.NullString
		resetExpire sql.NullTime
	)

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Surname,
		&user.Email,
		&user.Phone,
		&user.Address,
		&user.Role,
		&user.PasswordHash,
		&resetToken,
		&resetExpire,
		&user.Active,
		&user.RegisteredAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}

	if resetToken.Valid {
		user.ResetPasswordToken = &resetToken.String
	}
	if resetExpire.Valid {
		user.ResetPasswordExpire = &resetExpire.Time
	}

	return user, nil
}

// expectAffected reports notFound when res touched no row.
func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
