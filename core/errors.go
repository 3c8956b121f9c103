package core

import "github.com/pkg/errors"

var (
	// ErrResourceNotFound is returned when a requested entity does not exist.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrTransportFailure is returned when a data-access call fails for
	// reasons unrelated to the request itself.
	ErrTransportFailure = errors.New("transport failure")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}
