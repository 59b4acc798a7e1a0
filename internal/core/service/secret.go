package service

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt reads at most 72 bytes, so secrets are folded into a fixed-size
// SHA-256 digest first. The whole secret then takes part in every compare.
func prehash(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

func hashSecret(secret string, cost int) ([]byte, error) {
	return bcrypt.GenerateFromPassword(prehash(secret), cost)
}

func secretMatches(hash []byte, secret string) bool {
	return bcrypt.CompareHashAndPassword(hash, prehash(secret)) == nil
}
