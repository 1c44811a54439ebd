package apierror

import (
	"errors"
	"net/http"
)

// Stable taxonomy codes surfaced to clients.
const (
	CodeValidation   = "validation_error"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeServer       = "server_error"
)

// APIError is the structured client error produced at the boundary that
// detects the failure. Internal inconsistencies never become one.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string { return e.Message }

func Validation(msg string) *APIError {
	return &APIError{Code: CodeValidation, Message: msg, Status: http.StatusBadRequest}
}

func Unauthorized(msg string) *APIError {
	return &APIError{Code: CodeUnauthorized, Message: msg, Status: http.StatusUnauthorized}
}

func Forbidden(msg string) *APIError {
	return &APIError{Code: CodeForbidden, Message: msg, Status: http.StatusForbidden}
}

func NotFound(msg string) *APIError {
	return &APIError{Code: CodeNotFound, Message: msg, Status: http.StatusNotFound}
}

// From classifies an arbitrary error: APIErrors pass through, everything else
// becomes an opaque server error.
func From(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Code: CodeServer, Message: "internal server error", Status: http.StatusInternalServerError}
}

// IsClient reports whether the error was caused by the caller.
func IsClient(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError
}
