package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a unique key is inserted twice.
	ErrDuplicate = errors.New("persistence: duplicate")
	// ErrForeignKeyViolation is returned when a reference points at a missing row.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
	// ErrConstraintViolation is returned when a row fails a CHECK or NOT NULL constraint.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
)
