// Package mongo holds the reservation backend's persistence layer: one
// connected database handle shared by the account, verification, fleet,
// reservation and notification repositories.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// defaultTimeout bounds individual repository operations.
const defaultTimeout = 10 * time.Second

// Config carries the connection settings resolved from the environment.
type Config struct {
	URI      string
	Database string
	// Timeout bounds the initial dial and ping.
	Timeout time.Duration
}

// Connect dials MongoDB, verifies the server with a ping and returns the
// client alongside the reservation database handle. The configured timeout
// covers both steps.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
