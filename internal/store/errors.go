package store

import "errors"

// Sentinel errors returned by storage backends. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrEmptyKey is returned when an operation is called with an empty key.
	ErrEmptyKey = errors.New("storage key is empty")

	// ErrUnknownBackend is returned by [New] for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Low-level database operation errors of the SQLite backend.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT or DELETE
	// statement fails.
	ErrExecutingStatement = errors.New("failed to executing statement")
)
