// Package apierrors defines errors that are safe to return to API clients.
package apierrors

import (
	"fmt"
	"net/http"
)

// APIError is an error with a client-facing message and HTTP status.
// Err holds the internal cause and is never shown to the client.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newError(status int, message string, err error) *APIError {
	return &APIError{Status: status, Message: message, Err: err}
}

// NewErrBadRequest reports missing or malformed input.
func NewErrBadRequest(message string) *APIError {
	return newError(http.StatusBadRequest, message, nil)
}

// NewErrEmailIsTaken reports a registration for an email that already exists.
func NewErrEmailIsTaken(email string) *APIError {
	return newError(http.StatusConflict, "user already exists", fmt.Errorf("email %q is already taken", email))
}

// NewErrInvalidCredentials is returned for both unknown email and wrong password.
func NewErrInvalidCredentials() *APIError {
	return newError(http.StatusUnauthorized, "invalid credentials", nil)
}

func NewErrMissingAuthorizationToken() *APIError {
	return newError(http.StatusUnauthorized, "missing authorization token", nil)
}

func NewErrInvalidAuthorizationToken() *APIError {
	return newError(http.StatusUnauthorized, "invalid authorization token", nil)
}

// NewErrStoreUnavailable wraps a failure of the backing user store.
func NewErrStoreUnavailable(err error) *APIError {
	return newError(http.StatusServiceUnavailable, "service unavailable", err)
}

// NewErrInternalServerError wraps any unexpected failure.
func NewErrInternalServerError(err error) *APIError {
	return newError(http.StatusInternalServerError, "internal server error", err)
}
