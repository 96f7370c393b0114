package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/coder-ecommerce-api/internal/app/service"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/config"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/events"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/events/kafka"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/http"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/realtime"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/repository"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/telemetry"
)

const instrumentationName = "coder-ecommerce-api"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry
	telem, err := telemetry.NewTelemetry(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	// Ensure telemetry is shutdown on exit
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer(instrumentationName)
	meter := telem.MeterProvider.Meter(instrumentationName)
	logger := telem.Logger

	logger.Info("Starting e-commerce API",
		slog.String("storage.driver", cfg.Storage.Driver),
		slog.Bool("cart.check_stock", cfg.Cart.CheckStock),
	)

	if err := run(ctx, cfg, telem, logger, tracer, meter); err != nil {
		logger.Error("Server error", slog.String("error", err.Error()))
		return
	}

	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, telem *telemetry.Telemetry, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) error {
	repos, err := repository.Open(ctx, cfg, tracer, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repos.Close(closeCtx); err != nil {
			logger.Warn("Failed to close storage", slog.String("error", err.Error()))
		}
	}()

	// Product mutations fan out to the live hub and, when configured, Kafka
	fanout := events.NewFanout()

	productService := service.NewProductService(repos.Products, fanout, tracer, meter, logger)
	cartService := service.NewCartService(repos.Carts, repos.Products, cfg.Cart.CheckStock, tracer, meter, logger)
	studentService := service.NewStudentService(repos.Students, tracer, meter, logger)
	userService := service.NewUserService(repos.Users, tracer, meter, logger)

	hub := realtime.NewHub(productService, logger)
	defer hub.Close()
	fanout.Add(hub)

	if cfg.Kafka.Enabled() {
		publisher, err := kafka.NewPublisher(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			return err
		}
		defer publisher.Close()
		fanout.Add(publisher)
	}

	maxLimit := cfg.Catalog.MaxLimit
	server := http.NewServer(&cfg.Server, http.Handlers{
		Products: handler.NewProductHandler(productService, maxLimit, logger),
		Carts:    handler.NewCartHandler(cartService, logger),
		Students: handler.NewStudentHandler(studentService, maxLimit),
		Users:    handler.NewUserHandler(userService, maxLimit),
		Views:    handler.NewViewHandler(productService, maxLimit, logger),
		Live:     hub,
	}, logger, telem)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
