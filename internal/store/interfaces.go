package store

import (
	"context"
	"database/sql"
	"net/url"
	"time"

	"github.com/seguikro/cotisations/internal/query"
	"github.com/seguikro/cotisations/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Querier is satisfied by both *sql.DB and *sql.Tx, so repositories work
// the same inside and outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// IDGenerator issues identifiers for new rows.
type IDGenerator interface {
	Generate() string
}

type UserRepository interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (models.User, error)
	// FindByResetToken returns the user holding tokenHash if it has not
	// expired at now.
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (models.User, error)
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.User, error)
	// UpdatePassword stores a new hash and clears any pending reset token.
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	SetResetToken(ctx context.Context, id string, tokenHash string, expire time.Time) error
	ClearResetToken(ctx context.Context, id string) error
}

type GroupRepository interface {
	// Create inserts the group row only. Memberships, the owner's included,
	// are added with AddMember.
	Create(ctx context.Context, group models.Group) (models.Group, error)
	FindByID(ctx context.Context, id string) (models.Group, error)
	Update(ctx context.Context, group models.Group) (models.Group, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
}

type CotisationRepository interface {
	Create(ctx context.Context, cotisation models.Cotisation) (models.Cotisation, error)
	FindByID(ctx context.Context, id string) (models.Cotisation, error)
	ExistsForPeriod(ctx context.Context, memberID string, month models.Month, year int) (bool, error)
	Update(ctx context.Context, cotisation models.Cotisation) (models.Cotisation, error)
	Delete(ctx context.Context, id string) error
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction models.Transaction) (models.Transaction, error)
	FindByID(ctx context.Context, id string) (models.Transaction, error)
	// FindByCotisation returns the companion entry of a cotisation.
	FindByCotisation(ctx context.Context, cotisationID string) (models.Transaction, error)
	Update(ctx context.Context, transaction models.Transaction) (models.Transaction, error)
	// PatchByCotisation applies patch to every entry linked to the
	// cotisation and returns the number of updated rows.
	PatchByCotisation(ctx context.Context, cotisationID string, patch models.TransactionPatch) (int64, error)
	SetAttachment(ctx context.Context, id string, url string) (models.Transaction, error)
	Delete(ctx context.Context, id string) error
	DeleteByCotisation(ctx context.Context, cotisationID string) error
}

// DocumentFinder runs generic list queries. It is implemented by
// [query.Finder].
type DocumentFinder interface {
	List(ctx context.Context, c query.Collection, params url.Values, populate ...query.Expansion) (query.Page, error)
	Find(ctx context.Context, c query.Collection, spec query.Spec) ([]query.Document, error)
	FindOne(ctx context.Context, c query.Collection, id string, populate ...query.Expansion) (query.Document, error)
}

// UnitOfWork runs fn inside a single database transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}
