package store

import "errors"

var (
	// ErrLoginAlreadyExists reports a registration attempt with a taken login.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrNoUserWasFound reports a lookup that matched no user.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrNoteNotFound reports a note operation that matched no row owned by
	// the requesting user.
	ErrNoteNotFound = errors.New("note not found")

	// ErrCacheMiss reports an absent cache key. Callers treat it as a
	// signal to fall through to the database, never as a failure.
	ErrCacheMiss = errors.New("cache miss")

	// ErrExecutingQuery wraps driver-level query failures.
	ErrExecutingQuery = errors.New("error executing query")

	// ErrScanningRow wraps row scanning failures.
	ErrScanningRow = errors.New("error scanning row")
)
