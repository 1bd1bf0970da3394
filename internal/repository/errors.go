package repository

import "errors"

var (
	ErrNoteNotFound       = errors.New("note not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// ValidationError carries a provider-reported message that is safe to show
// to the client as a 400. Anything else a provider returns is treated as an
// internal error and kept out of responses.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validation(msg string) *ValidationError { return &ValidationError{Message: msg} }
