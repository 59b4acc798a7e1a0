package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Role is the closed set of authorization roles an identity can hold.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

// AllRoles lists every Role in display order.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleUser}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// ParseRole converts a stored or transmitted role string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
	return r, nil
}

// RoleBadge returns the user-menu badge style for a role.
func RoleBadge(r Role) string {
	switch r {
	case RoleAdmin:
		return "badge-destructive"
	case RoleManager:
		return "badge-primary"
	case RoleUser:
		return "badge-secondary"
	default:
		panic(fmt.Sprintf("domain: no badge for role %q", string(r)))
	}
}

// Identity is an authenticated actor. It never carries the secret.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
}

// Initials returns up to two upper-cased initials of the display name.
func (i Identity) Initials() string {
	out := make([]rune, 0, 2)
	for _, word := range strings.Fields(i.DisplayName) {
		if len(out) == 2 {
			break
		}
		out = append(out, unicode.ToUpper([]rune(word)[0]))
	}
	return string(out)
}

// Credential is a registry record: an identity plus its bcrypt secret hash.
type Credential struct {
	Identity
	SecretHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// EmailKey normalises an email for case-insensitive comparison and lookup.
// Surrounding whitespace is dropped as well: signup stores the trimmed
// address, so login must match it the same way.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
