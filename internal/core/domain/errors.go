package domain

import (
	"errors"
	"fmt"
)

// Error categories. Concrete errors wrap one of these so callers can branch
// on the category with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrCredential = errors.New("credential rejected")
)

var (
	ErrWeakSecret         = fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinSecretLength)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrCredential)
	ErrEmailTaken         = errors.New("email already registered")

	// ErrCorruptSession marks a persisted session record that could not be
	// decoded. It is repaired by deleting the record and never reaches a client.
	ErrCorruptSession  = errors.New("corrupt session record")
	ErrSessionNotFound = errors.New("session not found")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access forbidden")
	ErrUserNotFound    = errors.New("user not found")
)

var (
	ErrEmptyMessage            = fmt.Errorf("%w: message cannot be empty", ErrValidation)
	ErrUnknownPersona          = fmt.Errorf("%w: unknown persona", ErrValidation)
	ErrUnsupportedExportFormat = fmt.Errorf("%w: unsupported export format", ErrValidation)
	ErrConversationNotFound    = errors.New("conversation not found")
)

// MinSecretLength is the shortest secret accepted at signup, in characters.
const MinSecretLength = 6
