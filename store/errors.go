package store

import "errors"

var (
	// ErrInvalidIdentity is returned when identity text is not a well-formed
	// 24-character hex identifier.
	ErrInvalidIdentity = errors.New("lattice: invalid identity")

	// ErrInvalidQuery is returned when a filter or patch is malformed.
	ErrInvalidQuery = errors.New("lattice: invalid query")

	// ErrDuplicateKey is returned when a write violates a unique index.
	ErrDuplicateKey = errors.New("lattice: duplicate value for unique field")

	// ErrUnavailable is returned on transport or connection failure. The
	// mapper never retries; retry policy belongs to the caller.
	ErrUnavailable = errors.New("lattice: storage unavailable")

	// ErrScopeClosed is returned when a scope is used after release.
	ErrScopeClosed = errors.New("lattice: scope already closed")

	// ErrHookFailed is returned when a pre-persist hook rejects the entity.
	ErrHookFailed = errors.New("lattice: pre-persist hook rejected entity")
)
