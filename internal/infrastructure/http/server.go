package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/config"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/http/middleware"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/http/response"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/telemetry"
)

const meterName = "coder-ecommerce-api"

// Handlers groups everything the router mounts
type Handlers struct {
	Products *handler.ProductHandler
	Carts    *handler.CartHandler
	Students *handler.StudentHandler
	Users    *handler.UserHandler
	Views    *handler.ViewHandler
	Live     http.Handler
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	config     *config.ServerConfig
	handlers   Handlers
	logger     *slog.Logger
	telemetry  *telemetry.Telemetry
	httpServer *http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.ServerConfig,
	handlers Handlers,
	logger *slog.Logger,
	telem *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		handlers:  handlers,
		logger:    logger,
		telemetry: telem,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	meter := s.telemetry.MeterProvider.Meter(meterName)

	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.HTTPRouteContext())
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
	s.router.Use(middleware.DurationMillisecondsMiddleware(meter))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Route("/products", s.handlers.Products.Routes)
		r.Route("/carts", s.handlers.Carts.Routes)
		r.Route("/students", s.handlers.Students.Routes)
		r.Route("/users", s.handlers.Users.Routes)
	})

	s.router.Get("/", s.handlers.Views.Home)
	s.router.Get("/realtimeproducts", s.handlers.Views.RealTimeProducts)
	s.router.Get("/ws", s.handlers.Live.ServeHTTP)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus metrics endpoint - exposes OpenTelemetry metrics
	s.router.Get("/metrics", s.telemetry.MetricsHandler().ServeHTTP)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusNotFound, response.ErrorResponse{
			Status:  "error",
			Message: fmt.Sprintf("Route %s %s not found", r.Method, r.URL.Path),
		})
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusMethodNotAllowed, response.ErrorResponse{
			Status:  "error",
			Message: fmt.Sprintf("Method %s not allowed on %s", r.Method, r.URL.Path),
		})
	})
}

// Handler returns the router wrapped with otelhttp for automatic HTTP
// metrics and tracing
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("http.route", middleware.RoutePattern(r)),
			}
		}),
	)
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		slog.String("address", s.httpServer.Addr),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
