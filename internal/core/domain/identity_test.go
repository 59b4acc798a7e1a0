package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	for _, in := range []string{"ADMIN", "manager", " User "} {
		if _, err := ParseRole(in); err != nil {
			t.Fatalf("ParseRole(%q): %v", in, err)
		}
	}
	if _, err := ParseRole("ROOT"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRoleBadge_Exhaustive(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range AllRoles() {
		badge := RoleBadge(r)
		if badge == "" || seen[badge] {
			t.Fatalf("role %s needs a distinct badge, got %q", r, badge)
		}
		seen[badge] = true
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for an unknown role")
		}
	}()
	RoleBadge(Role("GUEST"))
}

func TestIdentity_Initials(t *testing.T) {
	cases := map[string]string{
		"Admin User":       "AU",
		"jane":             "J",
		"Mary Ann Smith":   "MA",
		"  spaced   out  ": "SO",
		"":                 "",
		"élodie durand":    "ÉD",
	}
	for name, want := range cases {
		if got := (Identity{DisplayName: name}).Initials(); got != want {
			t.Fatalf("Initials(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestEmailKey(t *testing.T) {
	if EmailKey("  Admin@Demo.COM ") != "admin@demo.com" {
		t.Fatalf("email key must be trimmed and lower-cased")
	}
}
