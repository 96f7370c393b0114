package repository

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/config"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/repository/filestore"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/repository/mongodb"
)

// Repositories is the storage backend selected by configuration
type Repositories struct {
	Products domain.ProductRepository
	Carts    domain.CartRepository
	Students domain.StudentRepository
	Users    domain.UserRepository

	close func(context.Context) error
}

// Open builds the repositories for cfg.Storage.Driver
func Open(ctx context.Context, cfg *config.Config, tracer trace.Tracer, logger *slog.Logger) (*Repositories, error) {
	const op = "repository.Open"

	switch cfg.Storage.Driver {
	case config.DriverFile:
		store, err := filestore.Open(cfg.Storage.DataDir, tracer, logger)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &Repositories{
			Products: store.Products,
			Carts:    store.Carts,
			Students: store.Students,
			Users:    store.Users,
		}, nil

	case config.DriverMongoDB:
		client, err := mongodb.Connect(ctx, mongodb.Config{
			URI:            cfg.MongoDB.URI,
			Database:       cfg.MongoDB.Database,
			ConnectTimeout: cfg.MongoDB.ConnectTimeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := mongodb.EnsureSchema(ctx, client.Database()); err != nil {
			_ = client.Close(ctx)
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		store := mongodb.NewStore(client, tracer, logger)
		return &Repositories{
			Products: store.Products,
			Carts:    store.Carts,
			Students: store.Students,
			Users:    store.Users,
			close:    client.Close,
		}, nil
	}

	return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Storage.Driver)
}

// Close releases the backend connection, if any
func (r *Repositories) Close(ctx context.Context) error {
	if r.close == nil {
		return nil
	}
	return r.close(ctx)
}
