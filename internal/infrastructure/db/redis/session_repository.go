package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
)

const sessionKeyPrefix = "demo_auth_user:"

// SessionRepository keeps one JSON identity record per session id.
// Key format: demo_auth_user:<session id>
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository stores records with the given time-to-live. A zero
// ttl keeps records until they are deleted.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) Save(ctx context.Context, sessionID string, identity domain.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+sessionID, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Load(ctx context.Context, sessionID string) (*domain.Identity, error) {
	raw, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return decodeSessionRecord(raw)
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// decodeSessionRecord rejects anything that is not a complete identity
// with a known role.
func decodeSessionRecord(raw []byte) (*domain.Identity, error) {
	var identity domain.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return nil, domain.ErrCorruptSession
	}
	if identity.ID == "" || identity.Email == "" || !identity.Role.Valid() {
		return nil, domain.ErrCorruptSession
	}
	return &identity, nil
}
