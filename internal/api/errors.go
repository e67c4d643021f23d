package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/service/scheduler"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Bad request errors
	case errors.Is(err, scheduler.ErrEmptyBatch),
		errors.Is(err, scheduler.ErrInvalidQuality),
		errors.Is(err, domain.ErrInvalidScore),
		errors.Is(err, domain.ErrEmptySessionUserID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, scheduler.ErrEmptyBatch):
		return "Review batch cannot be empty"

	case errors.Is(err, scheduler.ErrInvalidQuality):
		return "Quality rating must be between 0 and 5"

	case errors.Is(err, domain.ErrInvalidScore):
		return "Score percentage must be between 0 and 100"

	case errors.Is(err, store.ErrCardScheduleNotFound):
		return "Card schedule not found"

	case errors.Is(err, store.ErrStudySessionNotFound):
		return "Study session not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validator errors and
// returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format:
	// "Key: 'ReviewBatchRequest.UserID' Error:Field validation for 'UserID' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, validationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// validationTagMessage maps validation tags to user-friendly error messages.
func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "invalid identifier format"
	case "min":
		return "value too small"
	case "max":
		return "value too large"
	case "dive":
		return "invalid entry"
	default:
		return "validation failed"
	}
}
