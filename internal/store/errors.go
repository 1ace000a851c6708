package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrAccountNotFound is returned when no account matches the given email.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateAccount is returned when an insert violates the unique
	// constraint on accounts.email.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrSessionNotFound is returned when a token matches no live session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrDuplicateSessionToken is returned when a freshly generated token
	// collides with an existing one.
	ErrDuplicateSessionToken = errors.New("session token already exists")

	// ErrStoreUnavailable wraps every failure that is not one of the domain
	// conditions above: connection loss, timeouts, exhausted retries,
	// malformed rows.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUnsupportedDriver is returned when the configured driver is neither
	// SQLite nor PostgreSQL.
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// Low-level database operation errors. These are wrapped together with
// [ErrStoreUnavailable] when a SQL-level operation fails before any domain
// logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning fails during multi-row
	// iteration.
	ErrScanningRows = errors.New("failed to scan rows")
)
