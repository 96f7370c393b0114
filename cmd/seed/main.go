// Command seed loads sample products, students and users into the
// configured storage backend. Records that already exist are skipped.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/mrops-br/coder-ecommerce-api/internal/app/dto"
	"github.com/mrops-br/coder-ecommerce-api/internal/app/service"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/config"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/repository"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/telemetry"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	telem, err := telemetry.NewNoOpTelemetry(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	logger := telem.Logger
	tracer := telem.TracerProvider.Tracer("seed")
	meter := telem.MeterProvider.Meter("seed")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repos, err := repository.Open(ctx, cfg, tracer, logger)
	if err != nil {
		logger.Error("Failed to open storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	products := service.NewProductService(repos.Products, nil, tracer, meter, logger)
	students := service.NewStudentService(repos.Students, tracer, meter, logger)
	users := service.NewUserService(repos.Users, tracer, meter, logger)

	var s seeder
	for _, req := range sampleProducts() {
		_, err := products.CreateProduct(ctx, req)
		s.record(logger, "product", req.Code, err)
	}
	for _, req := range sampleStudents() {
		_, err := students.CreateStudent(ctx, req)
		s.record(logger, "student", req.Email, err)
	}
	for _, req := range sampleUsers() {
		_, err := users.CreateUser(ctx, req)
		s.record(logger, "user", req.Email, err)
	}

	logger.Info("Seed finished",
		slog.Int("created", s.created),
		slog.Int("skipped", s.skipped),
		slog.Int("failed", s.failed),
	)
	if err := repos.Close(context.Background()); err != nil {
		logger.Warn("Failed to close storage", slog.String("error", err.Error()))
	}
	if s.failed > 0 {
		os.Exit(1)
	}
}

type seeder struct {
	created, skipped, failed int
}

func (s *seeder) record(logger *slog.Logger, kind, key string, err error) {
	var dup *domain.DuplicateKeyError
	switch {
	case err == nil:
		s.created++
	case errors.As(err, &dup):
		s.skipped++
		logger.Info("Already seeded", slog.String("kind", kind), slog.String("key", key))
	default:
		s.failed++
		logger.Error("Failed to seed", slog.String("kind", kind), slog.String("key", key), slog.String("error", err.Error()))
	}
}

func intPtr(v int) *int { return &v }

func sampleProducts() []*dto.CreateProductRequest {
	p := func(title, description, code string, price float64, stock int, category string) *dto.CreateProductRequest {
		return &dto.CreateProductRequest{
			Title:       title,
			Description: description,
			Code:        code,
			Price:       price,
			Stock:       intPtr(stock),
			Category:    category,
		}
	}
	return []*dto.CreateProductRequest{
		p("iPhone 15 Pro", "Smartphone Apple con chip A17 Pro y cámara de 48MP", "IPH15PRO", 1299.99, 25, "Smartphones"),
		p("Samsung Galaxy S24", "Smartphone Samsung con pantalla AMOLED de 6.2 pulgadas", "SGS24", 999.99, 30, "Smartphones"),
		p("MacBook Air M3", "Notebook ultraliviana con chip M3 y 16GB de RAM", "MBAM3", 1499.00, 12, "Computadoras"),
		p("Lenovo ThinkPad X1", "Notebook empresarial con procesador Intel Core i7", "TPX1", 1350.50, 8, "Computadoras"),
		p("iPad Air", "Tablet Apple de 10.9 pulgadas con chip M2", "IPADAIR", 749.00, 20, "Tablets"),
		p("Galaxy Tab S9", "Tablet Samsung con S Pen incluido y pantalla AMOLED", "GTABS9", 699.99, 15, "Tablets"),
		p("AirPods Pro", "Auriculares inalámbricos con cancelación de ruido activa", "AIRPODSPRO", 249.00, 50, "Audio"),
		p("Sony WH-1000XM5", "Auriculares over-ear con cancelación de ruido líder", "SONYXM5", 399.99, 18, "Audio"),
		p("PlayStation 5", "Consola de videojuegos Sony con lector de discos", "PS5", 549.99, 10, "Gaming"),
		p("Nintendo Switch OLED", "Consola híbrida con pantalla OLED de 7 pulgadas", "NSWOLED", 349.99, 22, "Gaming"),
		p("LG OLED C3 55", "Televisor OLED 4K de 55 pulgadas con webOS", "LGC355", 1599.00, 6, "Televisores"),
		p("Cargador USB-C 65W", "Cargador rápido GaN compatible con notebooks y celulares", "USBC65W", 49.99, 100, "Accesorios"),
		p("Funda MagSafe", "Funda de silicona con imanes MagSafe para iPhone", "FUNDAMAG", 39.99, 80, "Accesorios"),
	}
}

func sampleStudents() []*dto.CreateStudentRequest {
	s := func(first, last string, age int, course, email string) *dto.CreateStudentRequest {
		return &dto.CreateStudentRequest{FirstName: first, LastName: last, Age: age, Course: course, Email: email}
	}
	return []*dto.CreateStudentRequest{
		s("Lucía", "Fernández", 19, "inicial", "lucia.fernandez@example.com"),
		s("Martín", "González", 24, "medio", "martin.gonzalez@example.com"),
		s("Sofía", "Rodríguez", 31, "avanzado", "sofia.rodriguez@example.com"),
		s("Tomás", "López", 17, "inicial", "tomas.lopez@example.com"),
		s("Valentina", "Martínez", 45, "medio", "valentina.martinez@example.com"),
		s("Joaquín", "Pérez", 28, "avanzado", "joaquin.perez@example.com"),
	}
}

func sampleUsers() []*dto.CreateUserRequest {
	return []*dto.CreateUserRequest{
		{FirstName: "Admin", LastName: "Coder", Email: "admin@example.com"},
		{FirstName: "Camila", LastName: "Suárez", Email: "camila.suarez@example.com"},
		{FirstName: "Diego", LastName: "Ramírez", Email: "diego.ramirez@example.com"},
	}
}
