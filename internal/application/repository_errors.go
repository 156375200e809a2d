package application

import (
	"errors"
	"fmt"

	"github.com/example/meetbot/internal/persistence"
)

// mapRepoError translates persistence failures into application sentinels.
// Anything unrecognized is reported as a store failure.
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return err
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return fieldError(FieldOrganization, msgOrganization)
	case errors.Is(err, ErrStore):
		return err
	}
	return fmt.Errorf("%w: %w", ErrStore, err)
}
