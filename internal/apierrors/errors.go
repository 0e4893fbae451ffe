// Package apierrors defines the client-facing error taxonomy. Services return
// these for expected outcomes; anything else is an internal failure.
package apierrors

import (
	"fmt"
	"net/http"
)

// APIError is an error with a stable code and an HTTP status.
type APIError struct {
	HTTPCode int    `json:"-"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
	cause    error
}

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Response returns the client-safe copy of the error.
func (e *APIError) Response() APIError {
	return APIError{Code: e.Code, Message: e.Message, Field: e.Field}
}

func NewErrValidation(field, message string) *APIError {
	return &APIError{
		HTTPCode: http.StatusBadRequest,
		Code:     "VALIDATION_FAILED",
		Message:  message,
		Field:    field,
	}
}

func NewErrInvalidRequestBody() *APIError {
	return &APIError{
		HTTPCode: http.StatusBadRequest,
		Code:     "INVALID_JSON",
		Message:  "request body is not valid JSON",
	}
}

func NewErrInvalidUserID(raw string) *APIError {
	return &APIError{
		HTTPCode: http.StatusBadRequest,
		Code:     "INVALID_USER_ID",
		Message:  fmt.Sprintf("user id %q is not valid", raw),
		Field:    "id",
	}
}

func NewErrUserNotFound() *APIError {
	return &APIError{
		HTTPCode: http.StatusNotFound,
		Code:     "USER_NOT_FOUND",
		Message:  "user not found",
	}
}

func NewErrEmailIsTaken(email string) *APIError {
	return &APIError{
		HTTPCode: http.StatusConflict,
		Code:     "EMAIL_TAKEN",
		Message:  fmt.Sprintf("email %s is already taken", email),
		Field:    "email",
	}
}

func NewErrInvalidCredentials() *APIError {
	return &APIError{
		HTTPCode: http.StatusUnauthorized,
		Code:     "INVALID_CREDENTIALS",
		Message:  "email or password is incorrect",
	}
}

func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{
		HTTPCode: http.StatusUnauthorized,
		Code:     "MISSING_TOKEN",
		Message:  "authorization token is required",
	}
}

func NewErrInvalidAuthorizationToken() *APIError {
	return &APIError{
		HTTPCode: http.StatusUnauthorized,
		Code:     "INVALID_TOKEN",
		Message:  "authorization token is invalid or expired",
	}
}

func NewErrForbidden() *APIError {
	return &APIError{
		HTTPCode: http.StatusForbidden,
		Code:     "FORBIDDEN",
		Message:  "insufficient permissions",
	}
}

func NewErrInvalidResetToken() *APIError {
	return &APIError{
		HTTPCode: http.StatusBadRequest,
		Code:     "INVALID_RESET_TOKEN",
		Message:  "reset token is invalid or expired",
		Field:    "token",
	}
}

// NewErrInternalServerError hides err from the client but keeps it for logs.
func NewErrInternalServerError(err error) *APIError {
	return &APIError{
		HTTPCode: http.StatusInternalServerError,
		Code:     "INTERNAL_ERROR",
		Message:  "internal server error",
		cause:    err,
	}
}
