package domain

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching across the error taxonomy.
var (
	ErrNetwork        = errors.New("network error")
	ErrAuth           = errors.New("authentication failed")
	ErrSessionExpired = errors.New("session expired")
	ErrValidation     = errors.New("validation failed")
	ErrBackend        = errors.New("backend error")
	ErrNotFound       = errors.New("not found")
)

// NetworkError is a transport or connectivity failure talking to the backend.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// AuthError covers rejected credentials, registration conflicts and expired
// sessions. Expired is set only when an authenticated call came back 401.
// Cause holds the underlying failure when the attempt never got an answer.
type AuthError struct {
	Status  int
	Message string
	Expired bool
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return ErrAuth.Error()
	}
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.Cause }

func (e *AuthError) Is(target error) bool {
	if target == ErrAuth {
		return true
	}
	return e.Expired && target == ErrSessionExpired
}

// ValidationError is a form check that failed before any backend call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// BackendError is any other non-2xx response. Status and Message are passed
// through to the caller untouched.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return e.Message
}

func (e *BackendError) Is(target error) bool {
	if target == ErrBackend {
		return true
	}
	return e.Status == 404 && target == ErrNotFound
}
