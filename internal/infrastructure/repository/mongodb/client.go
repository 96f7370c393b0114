package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mrops-br/coder-ecommerce-api/pkg/retry"
)

const (
	productsCollection = "products"
	cartsCollection    = "carts"
	studentsCollection = "students"
	usersCollection    = "users"
)

// Config holds the connection settings of the document store.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Client owns the driver connection and the selected database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

// Connect dials the server and pings it, retrying with exponential backoff
// until the connect timeout elapses.
func Connect(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	const op = "mongodb.Connect"

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = retry.Do(ctx, retry.Config{
		MaxAttempts: 5,
		Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
	}, func() error {
		err := client.Ping(ctx, readpref.Primary())
		if err != nil {
			logger.WarnContext(ctx, "MongoDB ping failed", slog.String("error", err.Error()))
		}
		return err
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	logger.Info("Connected to MongoDB", slog.String("database", cfg.Database))
	return &Client{client: client, db: client.Database(cfg.Database), logger: logger}, nil
}

// Database returns the selected database.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Close disconnects from the server
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
