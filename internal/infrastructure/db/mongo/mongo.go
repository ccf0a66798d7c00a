// Package mongo implements the durable user store and activity log for the
// auth service.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Config holds connection settings for the auth database.
type Config struct {
	URI      string
	Database string
	// Timeout bounds the initial dial and ping (MONGO_TIMEOUT). Zero falls
	// back to 10s so a misconfigured deployment still fails fast.
	Timeout time.Duration
}

// Connect dials the auth database and pings it before returning, so a bad
// MONGO_URI surfaces at startup rather than on the first login.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", cfg.Database, err)
	}
	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(dialCtx)
		return nil, nil, fmt.Errorf("ping %s: %w", cfg.Database, err)
	}
	return client, client.Database(cfg.Database), nil
}
