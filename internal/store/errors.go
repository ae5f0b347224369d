package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
// Their messages are safe to show to API clients.
var (
	// ErrEmailAlreadyExists is returned when registering an email that is
	// already used by another account, regardless of letter case.
	ErrEmailAlreadyExists = errors.New("a user with this email already exists")

	// ErrGroupNameAlreadyExists is returned when a group name is taken.
	ErrGroupNameAlreadyExists = errors.New("a group with this name already exists")

	// ErrCotisationAlreadyExists is returned when the member already has a
	// cotisation for the same month and year.
	ErrCotisationAlreadyExists = errors.New("a cotisation already exists for this member, month and year")

	// ErrAlreadyGroupMember is returned when adding a user twice to a group.
	ErrAlreadyGroupMember = errors.New("user is already a member of this group")

	// ErrDuplicateValue is returned for unique violations on constraints
	// without a dedicated error.
	ErrDuplicateValue = errors.New("duplicate field value entered")

	ErrUserNotFound        = errors.New("user not found")
	ErrGroupNotFound       = errors.New("group not found")
	ErrCotisationNotFound  = errors.New("cotisation not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNotGroupMember is returned when removing a user that does not
	// belong to the group.
	ErrNotGroupMember = errors.New("user is not a member of this group")

	// ErrReferenceNotFound is returned on foreign key violations, i.e. when
	// a written row references a user, group or cotisation that does not
	// exist.
	ErrReferenceNotFound = errors.New("referenced resource does not exist")

	// ErrConstraintViolation is returned when a value is rejected by a
	// CHECK or NOT NULL constraint.
	ErrConstraintViolation = errors.New("value violates a data constraint")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails for a reason not covered by the sentinels above.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
