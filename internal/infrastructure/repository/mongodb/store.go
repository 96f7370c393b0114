package mongodb

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Store groups the MongoDB repositories over one database.
type Store struct {
	Products *ProductRepository
	Carts    *CartRepository
	Students *StudentRepository
	Users    *UserRepository
}

// NewStore wires one repository per collection on the client database
func NewStore(c *Client, tracer trace.Tracer, logger *slog.Logger) *Store {
	db := c.Database()
	return &Store{
		Products: NewProductRepository(db, tracer, logger),
		Carts:    NewCartRepository(db, tracer, logger),
		Students: NewStudentRepository(db, tracer, logger),
		Users:    NewUserRepository(db, tracer, logger),
	}
}
