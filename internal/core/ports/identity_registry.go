package ports

import (
	"context"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
)

// IdentityRegistry persists identities created at runtime. Records are
// append-only: there is no update or delete.
type IdentityRegistry interface {
	// FindByEmail looks an identity up by its case-insensitive email key.
	// Returns domain.ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, emailKey string) (*domain.Credential, error)
	// Create appends cred. Returns domain.ErrEmailTaken when the email key
	// is already present.
	Create(ctx context.Context, cred *domain.Credential) error
	// List returns every runtime identity in creation order.
	List(ctx context.Context) ([]*domain.Credential, error)
}

// SessionRepository stores the active-session record of each client.
type SessionRepository interface {
	// Save writes the identity (never the secret) under sessionID.
	Save(ctx context.Context, sessionID string, identity domain.Identity) error
	// Load returns domain.ErrSessionNotFound when nothing is stored and
	// domain.ErrCorruptSession when the stored record cannot be decoded.
	Load(ctx context.Context, sessionID string) (*domain.Identity, error)
	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, sessionID string) error
}
