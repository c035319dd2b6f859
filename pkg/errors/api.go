package errors

import (
	"fmt"
	"net/http"
)

/*
APIError is an error with a stable HTTP status, serialized as the {error}
JSON body every endpoint uses for failures.
*/
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Shared failure modes across the API surface.
var (
	ErrNotFound           = &APIError{Status: http.StatusNotFound, Message: "Not found"}
	ErrProductNotFound    = &APIError{Status: http.StatusNotFound, Message: "Product not found"}
	ErrUserNotFound       = &APIError{Status: http.StatusNotFound, Message: "User not found"}
	ErrSessionNotFound    = &APIError{Status: http.StatusNotFound, Message: "Chat session not found"}
	ErrUsernameTaken      = &APIError{Status: http.StatusBadRequest, Message: "Username already exists"}
	ErrEmailTaken         = &APIError{Status: http.StatusBadRequest, Message: "Email already exists"}
	ErrInvalidCredentials = &APIError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	ErrAccountDisabled    = &APIError{Status: http.StatusUnauthorized, Message: "Account is disabled"}
	ErrInvalidToken       = &APIError{Status: http.StatusUnprocessableEntity, Message: "Invalid token"}
	ErrUnauthorized       = &APIError{Status: http.StatusUnauthorized, Message: "Invalid user authentication"}
	ErrRateLimited        = &APIError{Status: http.StatusTooManyRequests, Message: "Too many requests"}
	ErrValidation         = &APIError{Status: http.StatusBadRequest, Message: "Validation failed"}
	ErrInternal           = &APIError{Status: http.StatusInternalServerError, Message: "Internal server error"}
)

// WithMessagef creates a *copy* of an APIError with a formatted message.
// It does not modify the original error variable.
func (e *APIError) WithMessagef(format string, args ...any) *APIError {
	newErr := *e
	newErr.Message = fmt.Sprintf(format, args...)
	return &newErr
}

/*
Status maps any error to the HTTP status it should produce. Non-API errors
are treated as internal failures.
*/
func Status(err error) int {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Status
	}
	return http.StatusInternalServerError
}
