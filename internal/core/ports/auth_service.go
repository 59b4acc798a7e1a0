package ports

import (
	"context"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
)

// AuthService is the session store: it authenticates credentials and owns
// the lifecycle of the active session.
type AuthService interface {
	Login(ctx context.Context, email, secret string) (*domain.Session, error)
	Signup(ctx context.Context, email, secret, displayName string) (*domain.Session, error)
	Logout(ctx context.Context, session *domain.Session)
	Resolve(ctx context.Context, sessionID string) (*domain.Session, domain.GuardState)
	HasRole(session *domain.Session, allowed ...domain.Role) bool
	Identities(ctx context.Context) ([]domain.Identity, error)
}

// TokenIssuer signs and verifies the opaque token that locates a session.
type TokenIssuer interface {
	Issue(session *domain.Session) (string, error)
	// Verify returns the session id carried by a valid token.
	Verify(token string) (string, error)
}
