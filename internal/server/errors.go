package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/marketing-intel/internal/db"
)

// ErrInvalidCredentials indicates a failed portal login.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid password"
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrMailNotConfigured indicates the signup flow is unavailable because no
// SMTP settings were provided.
type ErrMailNotConfigured struct{}

func (e *ErrMailNotConfigured) Error() string {
	return "email delivery is not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	if errors.Is(err, db.ErrTokenNotFound) || errors.Is(err, db.ErrTargetNotFound) {
		return http.StatusNotFound
	}

	switch err.(type) {
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrMailNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
