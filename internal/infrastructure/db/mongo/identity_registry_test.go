package mongo

import (
	"errors"
	"testing"
	"time"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
)

func TestIdentityDocument_RoundTrip(t *testing.T) {
	created := time.Date(2025, 9, 23, 8, 30, 0, 0, time.UTC)
	cred := &domain.Credential{
		Identity: domain.Identity{
			ID:          "7f0c",
			Email:       "Dana@Example.com",
			DisplayName: "Dana Scully",
			Role:        domain.RoleUser,
		},
		SecretHash: "$2a$04$hash",
		CreatedAt:  created,
	}

	doc := toDocument(cred)
	if doc.EmailKey != "dana@example.com" {
		t.Fatalf("expected normalised email key, got %q", doc.EmailKey)
	}
	if doc.Email != "Dana@Example.com" {
		t.Fatalf("expected email to keep its casing, got %q", doc.Email)
	}

	back, err := doc.credential()
	if err != nil {
		t.Fatalf("credential returned error: %v", err)
	}
	if back.Identity != cred.Identity || back.SecretHash != cred.SecretHash || !back.CreatedAt.Equal(created) {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestIdentityDocument_UnknownRole(t *testing.T) {
	doc := identityDocument{ID: "x", Email: "x@example.com", Role: "ROOT"}

	if _, err := doc.credential(); err == nil || !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected role validation error, got %v", err)
	}
}
