package domain

import "errors"

var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("entity not found")
	// ErrInvalidInput indicates malformed or missing request data.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrUserError blocks a workflow action, e.g. canceling a sold property.
	ErrUserError = errors.New("operation not allowed")
	// ErrValidation is a record-level rule failure, e.g. the selling price floor.
	ErrValidation = errors.New("validation failed")
	// ErrConstraint is a schema-level check failure, e.g. a non-positive price.
	ErrConstraint = errors.New("constraint violated")
	// ErrDuplicateName indicates a unique name constraint was violated.
	ErrDuplicateName = errors.New("name already exists")
	// ErrRepository indicates a generic data persistence error.
	ErrRepository = errors.New("repository error")
	// ErrUnavailable indicates an optional backend is not configured.
	ErrUnavailable = errors.New("service unavailable")
)

// IsUserFacing reports whether err carries a message meant for the caller.
func IsUserFacing(err error) bool {
	return errors.Is(err, ErrUserError) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConstraint) ||
		errors.Is(err, ErrDuplicateName) ||
		errors.Is(err, ErrInvalidInput)
}
