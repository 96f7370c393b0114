package filestore

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	productsFile = "products.json"
	cartsFile    = "carts.json"
	studentsFile = "students.json"
	usersFile    = "users.json"
)

// Store groups the flat-file repositories that share one data directory.
type Store struct {
	Products *ProductRepository
	Carts    *CartRepository
	Students *StudentRepository
	Users    *UserRepository
}

// Open opens (and creates when missing) every collection under dir.
func Open(dir string, tracer trace.Tracer, logger *slog.Logger) (*Store, error) {
	const op = "filestore.Open"

	products, err := NewProductRepository(filepath.Join(dir, productsFile), tracer, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	carts, err := NewCartRepository(filepath.Join(dir, cartsFile), tracer, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	students, err := NewStudentRepository(filepath.Join(dir, studentsFile), tracer, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	users, err := NewUserRepository(filepath.Join(dir, usersFile), tracer, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("Flat-file store opened", slog.String("data_dir", dir))
	return &Store{Products: products, Carts: carts, Students: students, Users: users}, nil
}

func recordError(span trace.Span, err error, msg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
}
