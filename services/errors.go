package services

import (
	"errors"
	"fmt"

	"github.com/MuhammadFattan/task-management/logging"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrStore           = errors.New("store error")
)

// Error is a classified failure with a message safe to show to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func validationError(format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func forbiddenError(message string) error {
	return &Error{Kind: ErrForbidden, Message: message}
}

func unauthenticatedError(message string) error {
	return &Error{Kind: ErrUnauthenticated, Message: message}
}

// storeError logs the underlying failure and hides it behind ErrStore.
func storeError(op string, err error) error {
	logging.Logger.WithError(err).Errorf("Event ID: STORE_ERROR, Description: %s failed", op)
	return &Error{Kind: ErrStore, Message: "Server Error"}
}
