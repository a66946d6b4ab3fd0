package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vocadrill/vocadrill-api/internal/api/shared"
	"github.com/vocadrill/vocadrill-api/internal/generation"
	"github.com/vocadrill/vocadrill-api/internal/service/auth"
	"github.com/vocadrill/vocadrill-api/internal/service/review"
	"github.com/vocadrill/vocadrill-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, review.ErrSessionNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, review.ErrSessionNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, review.ErrSessionComplete),
		errors.Is(err, review.ErrSessionFailed):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, review.ErrSessionTargetInvalid):
		return http.StatusBadRequest

	// A user with no corpus cannot start a session; the request was
	// well-formed but cannot be acted on.
	case errors.Is(err, review.ErrEmptyCorpus):
		return http.StatusUnprocessableEntity

	// Upstream generation failures
	case errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable
	case errors.Is(err, generation.ErrAuthFailure),
		errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	// Authorization errors
	case errors.Is(err, review.ErrSessionNotOwned):
		return "You do not own this session"

	// Not found errors
	case errors.Is(err, review.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrItemNotFound):
		return "Corpus item not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, review.ErrSessionComplete):
		return "Session is already complete"

	case errors.Is(err, review.ErrSessionFailed):
		return "Session failed during setup"

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, review.ErrSessionTargetInvalid):
		return "Session target must not be negative"

	case errors.Is(err, review.ErrEmptyCorpus):
		return "No vocabulary items available for practice"

	// Upstream generation failures
	case errors.Is(err, generation.ErrTransientFailure):
		return "Content generation is temporarily unavailable"

	case errors.Is(err, generation.ErrContentBlocked):
		return "Generated content was blocked by safety filters"

	case errors.Is(err, generation.ErrAuthFailure),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrGenerationFailed):
		return "Failed to generate practice content"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an internal error to a status code and safe message,
// logs the full (redacted) error, and writes the response. fallbackMessage
// replaces the generic message for unmapped errors; pass "" to keep it.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMessage != "" {
		message = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Check if this is likely a validation error message
	if strings.Contains(errMsg, "Field validation") {
		// Extract the field name and validation tag
		// Example format: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
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
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte":
		return "value too small"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
