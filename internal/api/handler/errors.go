package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
)

// StatusClientClosedRequest is reported when the caller went away before
// the response was ready.
const StatusClientClosedRequest = 499

// ResolveError maps a domain error to an HTTP status and the message shown
// to the user. ok is false for errors that are not part of the domain
// taxonomy; the caller must treat those as internal failures.
func ResolveError(err error) (status int, msg string, ok bool) {
	switch {
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "Request cancelled", true
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Request timed out", true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password", true
	case errors.Is(err, domain.ErrWeakSecret):
		return http.StatusUnprocessableEntity, "Password must be at least 6 characters", true
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "Email already registered", true
	case errors.Is(err, domain.ErrEmptyMessage):
		return http.StatusUnprocessableEntity, "Message cannot be empty", true
	case errors.Is(err, domain.ErrUnknownPersona):
		return http.StatusBadRequest, "Unknown persona", true
	case errors.Is(err, domain.ErrUnsupportedExportFormat):
		return http.StatusBadRequest, "Unsupported export format, use csv or json", true
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Authentication required", true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Access forbidden", true
	case errors.Is(err, domain.ErrConversationNotFound):
		return http.StatusNotFound, "Conversation not found", true
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, validationMessage(err), true
	}
	return http.StatusInternalServerError, "Something went wrong, please try again", false
}

// validationMessage strips the category prefix and capitalises the rest.
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
