package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	appName        = "asset-intelligence"
	defaultTimeout = 10 * time.Second
)

// Config describes the mongo deployment holding the identity registry.
type Config struct {
	URI      string
	Database string
	// Timeout bounds server selection and the startup ping. Zero selects
	// defaultTimeout, which also bounds each registry operation.
	Timeout time.Duration
}

// Open connects to mongo, pings the primary and returns the client with the
// configured database handle.
func Open(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	d := cfg.Timeout
	if d <= 0 {
		d = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(d))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, nil, fmt.Errorf("mongo: ping primary: %w", err)
	}
	return client, client.Database(cfg.Database), nil
}

// Check reports mongo reachability to the readiness endpoint.
type Check struct {
	Client *mongo.Client
}

func (Check) Name() string { return "mongo" }

func (c Check) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx, readpref.Primary())
}
