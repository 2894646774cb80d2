package services

import "errors"

// Failure kinds surfaced by services. Handlers map these onto HTTP status
// codes with errors.Is; everything unclassified becomes a 500.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
)

// Error pairs a failure kind with a human-readable message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func notFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func forbidden(message string) error {
	return &Error{Kind: ErrForbidden, Message: message}
}

func invalidState(message string) error {
	return &Error{Kind: ErrInvalidState, Message: message}
}

func validation(message string) error {
	return &Error{Kind: ErrValidation, Message: message}
}
