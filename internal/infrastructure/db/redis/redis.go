// Package redis implements the login-attempt throttle on go-redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds connection settings for the throttle backend.
type Config struct {
	Addr string
	DB   int
	// Timeout bounds the startup ping (REDIS_TIMEOUT). Zero falls back to 5s.
	Timeout time.Duration
}

// Connect builds a client and pings it once, so an unreachable REDIS_ADDR is
// caught at startup instead of silently degrading every login.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, DB: cfg.DB})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
