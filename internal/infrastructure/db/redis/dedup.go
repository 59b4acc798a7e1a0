package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDedupTTL = time.Hour

// IdentifyDedup remembers announced visitor identities in Redis.
// Key format: activity:identify:<key>
type IdentifyDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdentifyDedup wraps client. Marks expire after ttl, or an hour when
// ttl is not positive.
func NewIdentifyDedup(client *redis.Client, ttl time.Duration) *IdentifyDedup {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &IdentifyDedup{client: client, ttl: ttl}
}

// FirstSeen sets the mark if absent and reports whether this call set it.
func (d *IdentifyDedup) FirstSeen(ctx context.Context, key string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(key), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("identify dedup: %w", err)
	}
	return ok, nil
}

func (d *IdentifyDedup) key(k string) string {
	return "activity:identify:" + k
}
