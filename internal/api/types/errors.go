package types

import (
	"net/http"

	appErr "github.com/artisanhub/server/pkg/errors"
)

// FromAppError converts an error to the wire representation.
func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	var ae *appErr.AppError
	if e, ok := err.(*appErr.AppError); ok {
		ae = e
	}
	if ae == nil {
		return &APIError{Code: string(appErr.CodeUnknown), Message: err.Error()}
	}
	return &APIError{Code: string(ae.Code), Message: ae.Message}
}

// StatusFromError maps error codes to HTTP status codes.
func StatusFromError(err error) int {
	switch appErr.CodeOf(err) {
	case appErr.CodeInvalid:
		return http.StatusBadRequest
	case appErr.CodeConflict:
		return http.StatusConflict
	case appErr.CodeUnauthorized:
		return http.StatusUnauthorized
	case appErr.CodeForbidden:
		return http.StatusForbidden
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
