package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendMemory     = "memory"
	BackendRedisMongo = "redis-mongo"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	StorageBackend  string `env:"STORAGE_BACKEND,  default=memory"`
	ActivityWorkers int    `env:"ACTIVITY_WORKERS, default=4"`
	BcryptCost      int    `env:"BCRYPT_COST,      default=10"`

	Session   SessionConfig
	Latency   LatencyConfig
	RateLimit RateLimitConfig

	Mongo MongoConfig
	Redis RedisConfig
}

// SessionConfig names the session cookie and, for anonymous visitors of
// public pages, the visitor cookie.
type SessionConfig struct {
	TTL           time.Duration `env:"SESSION_TTL,           default=24h"`
	Cookie        string        `env:"SESSION_COOKIE,        default=ai_session"`
	CookieSecure  bool          `env:"SESSION_COOKIE_SECURE, default=false"`
	VisitorCookie string        `env:"VISITOR_COOKIE,        default=ai_visitor"`
}

// LatencyConfig sets the simulated round trips. Zero disables a delay.
type LatencyConfig struct {
	Auth    time.Duration `env:"AUTH_LATENCY,    default=500ms"`
	Copilot time.Duration `env:"COPILOT_LATENCY, default=2s"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS,   default=1"`
	Burst int     `env:"RATE_LIMIT_BURST, default=5"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=asset_intelligence"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendRedisMongo:
	default:
		return fmt.Errorf("config: STORAGE_BACKEND must be %q or %q, got %q", BackendMemory, BackendRedisMongo, c.StorageBackend)
	}
	if c.ActivityWorkers <= 0 {
		return fmt.Errorf("config: ACTIVITY_WORKERS must be positive, got %d", c.ActivityWorkers)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("config: BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive, got %s", c.Session.TTL)
	}
	if c.Latency.Auth < 0 || c.Latency.Copilot < 0 {
		return fmt.Errorf("config: latencies must not be negative")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("config: RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// IsDevelopment reports whether ENV selects the development profile.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
