package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
)

// ErrInvalidToken is returned for tokens that fail signature, algorithm,
// expiry or shape checks.
var ErrInvalidToken = errors.New("invalid session token")

// JWTIssuer signs the session locator handed to clients. The token carries
// the session id plus the subject and role for display only; the stored
// session record stays authoritative.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (j *JWTIssuer) Issue(session *domain.Session) (string, error) {
	if !session.Authenticated() || session.ID == "" {
		return "", fmt.Errorf("issue token: %w", domain.ErrUnauthenticated)
	}
	claims := jwt.MapClaims{
		"sid":  session.ID,
		"sub":  session.Identity.ID,
		"role": string(session.Identity.Role),
		"exp":  j.now().Add(j.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(j.secret)
}

func (j *JWTIssuer) Verify(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil || !tkn.Valid {
		return "", ErrInvalidToken
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", ErrInvalidToken
	}
	return sid, nil
}
