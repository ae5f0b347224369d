package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells the unit of work whether a failed transaction
// may be attempted again.
type ErrorClassification int

const (
	NonRetryable ErrorClassification = iota
	Retryable
)

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// PostgresErrorClassifier retries serialization failures, deadlocks and
// dropped connections. Everything else, including every integrity
// violation, is final.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// retryableCodes are PostgreSQL classes 08, 40 and 57P03.
var retryableCodes = map[string]struct{}{
	pgerrcode.ConnectionException:    {},
	pgerrcode.ConnectionDoesNotExist: {},
	pgerrcode.ConnectionFailure:      {},
	pgerrcode.TransactionRollback:    {},
	pgerrcode.SerializationFailure:   {},
	pgerrcode.DeadlockDetected:       {},
	pgerrcode.CannotConnectNow:       {},
}

func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if _, ok := retryableCodes[postgresError(err)]; ok {
		return Retryable
	}
	return NonRetryable
}

// uniqueViolations maps constraint names to the error reported when they
// reject a write.
var uniqueViolations = map[string]error{
	"users_email_key":               ErrEmailAlreadyExists,
	"groups_name_key":               ErrGroupNameAlreadyExists,
	"cotisations_member_period_key": ErrCotisationAlreadyExists,
	"group_members_pkey":            ErrAlreadyGroupMember,
}

// translate converts a driver error into the store taxonomy. notFound is
// returned for missing rows and for malformed identifiers, which can never
// match a row. Unclassified errors keep the driver error in their chain so
// that the unit of work can still classify them.
func translate(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}

	switch postgresError(err) {
	case pgerrcode.UniqueViolation:
		if known, ok := uniqueViolations[constraintName(err)]; ok {
			return known
		}
		return ErrDuplicateValue
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w (%s)", ErrReferenceNotFound, constraintName(err))
	case pgerrcode.InvalidTextRepresentation:
		return notFound
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return fmt.Errorf("%w (%s)", ErrConstraintViolation, constraintName(err))
	default:
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
}

// postgresError returns the SQLSTATE of err, or "" for non-driver errors.
func postgresError(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
