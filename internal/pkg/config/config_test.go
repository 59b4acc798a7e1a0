package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" || cfg.StorageBackend != BackendMemory || !cfg.IsDevelopment() {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Session.TTL != 24*time.Hour || cfg.Session.Cookie != "ai_session" || cfg.Session.VisitorCookie != "ai_visitor" {
		t.Fatalf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.Latency.Auth != 500*time.Millisecond || cfg.Latency.Copilot != 2*time.Second {
		t.Fatalf("unexpected latency defaults: %+v", cfg.Latency)
	}
	if cfg.Mongo.Database != "asset_intelligence" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected store defaults: %+v %+v", cfg.Mongo, cfg.Redis)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	env := map[string]string{
		"STORAGE_BACKEND": "redis-mongo",
		"AUTH_LATENCY":    "0s",
		"SESSION_TTL":     "30m",
		"RATE_LIMIT_RPS":  "0.5",
		"ENV":             "production",
	}
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StorageBackend != BackendRedisMongo || cfg.Latency.Auth != 0 || cfg.Session.TTL != 30*time.Minute || cfg.RateLimit.RPS != 0.5 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.IsDevelopment() {
		t.Fatalf("production must not be development")
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"backend":  {"STORAGE_BACKEND": "sqlite"},
		"workers":  {"ACTIVITY_WORKERS": "0"},
		"cost":     {"BCRYPT_COST": "3"},
		"latency":  {"COPILOT_LATENCY": "-1s"},
		"duration": {"SESSION_TTL": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{"STORAGE_BACKEND": "sqlite"}))
	if err == nil || !strings.Contains(err.Error(), "STORAGE_BACKEND") {
		t.Fatalf("expected error naming the variable, got %v", err)
	}
}
