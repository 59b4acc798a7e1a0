package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config describes the redis instance holding sessions, conversations and
// identify dedup keys.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Timeout bounds dialing, each command and the startup ping. Zero means 5s.
	Timeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 5 * time.Second
}

// Open dials redis and fails fast when the server does not answer PING.
func Open(ctx context.Context, cfg Config) (*redis.Client, error) {
	d := cfg.timeout()
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  d,
		ReadTimeout:  d,
		WriteTimeout: d,
	})

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: ping: %w", cfg.Addr, err)
	}
	return client, nil
}

// Check reports redis reachability to the readiness endpoint.
type Check struct {
	Client *redis.Client
}

func (Check) Name() string { return "redis" }

func (c Check) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}
