package usecase

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// ValidationError carries the reason an input was rejected. It matches
// ErrInvalidInput and its cause under errors.Is.
type ValidationError struct {
	Cause error
}

func (e *ValidationError) Error() string { return e.Cause.Error() }

func (e *ValidationError) Unwrap() []error { return []error{ErrInvalidInput, e.Cause} }

func invalid(cause error) error {
	return &ValidationError{Cause: cause}
}
