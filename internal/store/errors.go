package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUsernameOrEmailTaken is returned when an attempt to register a new
	// user fails because a user with the same username or email already
	// exists in the database.
	ErrUsernameOrEmailTaken = errors.New("username or email already exists")

	// ErrUserNotFound is returned when a query expected to match a user
	// record produces an empty result set.
	ErrUserNotFound = errors.New("user was not found")

	// ErrNoteNotFound is returned when a query or update targets a note
	// that does not exist in the database.
	ErrNoteNotFound = errors.New("note was not found")

	// ErrNoteAlreadyDeleted is returned when a soft delete targets a note
	// whose delete_date is already set.
	ErrNoteAlreadyDeleted = errors.New("note is already deleted")

	// ErrAssignmentNotFound is returned when a query or update targets an
	// assignment that does not exist in the database.
	ErrAssignmentNotFound = errors.New("assignment was not found")

	// ErrAssignmentAlreadyExists is returned when an insert or reassignment
	// would produce a second assignment for the same (note, user) pair.
	// The unique constraint on (note_id, user_id) is the authoritative
	// guard; this error surfaces its violation.
	ErrAssignmentAlreadyExists = errors.New("assignment already exists for this note and user")

	// ErrContactNotFound is returned when a query or update targets a
	// contact row that does not exist in the database.
	ErrContactNotFound = errors.New("contact was not found")

	// ErrContactAlreadyExists is returned when an insert would produce a
	// second contact row for the same (owner, target) pair.
	ErrContactAlreadyExists = errors.New("contact already exists for this user pair")

	// ErrMissingReference is returned when an insert or update violates a
	// foreign key, i.e. it points at a user or note that no longer exists.
	ErrMissingReference = errors.New("referenced entity does not exist")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
