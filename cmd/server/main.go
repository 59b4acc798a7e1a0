// @title        Asset Intelligence API
// @version      1.0
// @description  Session store, access guard and copilot simulator for the Asset Intelligence Platform.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/assetintel/asset-intelligence/internal/api"
	"github.com/assetintel/asset-intelligence/internal/api/handler"
	"github.com/assetintel/asset-intelligence/internal/api/middleware"
	"github.com/assetintel/asset-intelligence/internal/core/ports"
	"github.com/assetintel/asset-intelligence/internal/core/service"
	"github.com/assetintel/asset-intelligence/internal/infrastructure/db/memory"
	mongostore "github.com/assetintel/asset-intelligence/internal/infrastructure/db/mongo"
	redisstore "github.com/assetintel/asset-intelligence/internal/infrastructure/db/redis"
	"github.com/assetintel/asset-intelligence/internal/infrastructure/http/handlers"
	"github.com/assetintel/asset-intelligence/internal/infrastructure/queue"
	"github.com/assetintel/asset-intelligence/internal/pkg/config"
	"github.com/assetintel/asset-intelligence/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// stores groups the storage ports of one backend.
type stores struct {
	registry      ports.IdentityRegistry
	sessions      ports.SessionRepository
	conversations ports.ConversationRepository
	dedup         service.IdentifyDedup
	health        []handlers.Dependency
	close         func(context.Context)
}

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "asset-intelligence",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close(context.Background())

	activityService := service.NewActivityService(st.dedup, logger.Component("activity"))
	dispatcher := queue.NewDispatcher(cfg.ActivityWorkers, activityService, logger.Component("dispatcher"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	authService, err := service.NewAuthService(st.registry, st.sessions, dispatcher, service.AuthOptions{
		Latency:  cfg.Latency.Auth,
		HashCost: cfg.BcryptCost,
	}, logger.Component("auth"))
	if err != nil {
		stopWorkers()
		return err
	}
	copilotService := service.NewCopilotService(st.conversations, dispatcher, cfg.Latency.Copilot, logger.Component("copilot"))

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	go limiter.Run(ctx)

	e, err := api.NewRouter(api.Dependencies{
		Auth:     authService,
		Copilot:  copilotService,
		Tokens:   service.NewJWTIssuer(jwtSecret(cfg, log), cfg.Session.TTL),
		Activity: dispatcher,
		Limiter:  limiter,
		Cookie: handler.CookieConfig{
			Name:    cfg.Session.Cookie,
			Secure:  cfg.Session.CookieSecure,
			TTL:     cfg.Session.TTL,
			Visitor: cfg.Session.VisitorCookie,
		},
		Backend: cfg.StorageBackend,
		Health:  st.health,
		Log:     logger.Component("http"),
	})
	if err != nil {
		stopWorkers()
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.StorageBackend).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			stopWorkers()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("server stopped")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.StorageBackend == config.BackendMemory {
		log.Warn().Msg("using in-memory storage; sessions and registered users are lost on restart")
		return &stores{
			registry:      memory.NewIdentityRegistry(),
			sessions:      memory.NewSessionRepository(cfg.Session.TTL),
			conversations: memory.NewConversationRepository(),
			dedup:         memory.NewIdentifyDedup(),
			close:         func(context.Context) {},
		}, nil
	}

	mongoClient, db, err := mongostore.Open(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	registry := mongostore.NewIdentityRegistry(db)
	if err := registry.EnsureIndexes(ctx); err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, err
	}

	rdb, err := redisstore.Open(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, err
	}

	return &stores{
		registry:      registry,
		sessions:      redisstore.NewSessionRepository(rdb, cfg.Session.TTL),
		conversations: redisstore.NewConversationRepository(rdb, cfg.Session.TTL),
		dedup:         redisstore.NewIdentifyDedup(rdb, 0),
		health:        []handlers.Dependency{mongostore.Check{Client: mongoClient}, redisstore.Check{Client: rdb}},
		close: func(ctx context.Context) {
			closeRedis(rdb, log)
			if err := mongoClient.Disconnect(ctx); err != nil {
				log.Error().Err(err).Msg("mongo disconnect")
			}
		},
	}, nil
}

func closeRedis(rdb *goredis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
}

// jwtSecret returns the configured secret or a random one that invalidates
// every token on restart.
func jwtSecret(cfg *config.Config, log zerolog.Logger) string {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatal().Err(err).Msg("generate jwt secret")
	}
	log.Warn().Msg("JWT_SECRET not set; using an ephemeral secret")
	return hex.EncodeToString(buf)
}
