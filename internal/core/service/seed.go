package service

import (
	"fmt"
	"time"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
)

// DemoAccount is a seeded identity together with its published demo secret.
type DemoAccount struct {
	Label  string
	Email  string
	Secret string
	Role   domain.Role
}

type seedIdentity struct {
	id          string
	displayName string
	account     DemoAccount
}

var seedIdentities = []seedIdentity{
	{id: "1", displayName: "Admin User", account: DemoAccount{Label: "Admin", Email: "admin@demo.com", Secret: "admin123", Role: domain.RoleAdmin}},
	{id: "2", displayName: "Manager User", account: DemoAccount{Label: "Manager", Email: "manager@demo.com", Secret: "manager123", Role: domain.RoleManager}},
	{id: "3", displayName: "Regular User", account: DemoAccount{Label: "User", Email: "user@demo.com", Secret: "user123", Role: domain.RoleUser}},
}

// DemoAccounts returns the seeded demo credentials shown on the login page.
func DemoAccounts() []DemoAccount {
	out := make([]DemoAccount, len(seedIdentities))
	for i, s := range seedIdentities {
		out[i] = s.account
	}
	return out
}

// hashSeeds turns the seeded identities into credentials. Seeds live for the
// process lifetime and are never written to the registry.
func hashSeeds(cost int, now time.Time) ([]*domain.Credential, error) {
	out := make([]*domain.Credential, 0, len(seedIdentities))
	for _, s := range seedIdentities {
		hash, err := hashSecret(s.account.Secret, cost)
		if err != nil {
			return nil, fmt.Errorf("hash seed %s: %w", s.account.Email, err)
		}
		out = append(out, &domain.Credential{
			Identity: domain.Identity{
				ID:          s.id,
				Email:       s.account.Email,
				DisplayName: s.displayName,
				Role:        s.account.Role,
			},
			SecretHash: string(hash),
			CreatedAt:  now,
		})
	}
	return out, nil
}
