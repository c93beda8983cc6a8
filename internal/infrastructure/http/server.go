package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/storefront-api/internal/infrastructure/config"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/middleware"
	"github.com/mrops-br/storefront-api/internal/infrastructure/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// Handlers bundles the route handlers the server mounts
type Handlers struct {
	Products *handler.ProductHandler
	Cart     *handler.CartHandler
	Auth     *handler.AuthHandler
}

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	config    *config.ServerConfig
	handlers  Handlers
	sessions  middleware.SessionReader
	logger    *slog.Logger
	telemetry *telemetry.Telemetry
	srv       *http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.ServerConfig,
	handlers Handlers,
	sessions middleware.SessionReader,
	telem *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		handlers:  handlers,
		sessions:  sessions,
		logger:    telem.Logger,
		telemetry: telem,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.srv = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.HTTPRouteContext())

	meter := s.telemetry.MeterProvider.Meter("storefront-api")
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
	s.router.Use(middleware.DurationMillisecondsMiddleware(meter))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Route("/products", func(r chi.Router) {
		r.Get("/", s.handlers.Products.ListProducts)
		r.Get("/featured", s.handlers.Products.ListFeatured)
		r.Get("/{id}", s.handlers.Products.GetProduct)
	})

	s.router.Route("/cart", func(r chi.Router) {
		r.Get("/", s.handlers.Cart.GetCart)
		r.Delete("/", s.handlers.Cart.Clear)
		r.Post("/items", s.handlers.Cart.AddItem)
		r.Put("/items/{id}", s.handlers.Cart.UpdateItem)
		r.Delete("/items/{id}", s.handlers.Cart.RemoveItem)
	})

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handlers.Auth.Register)
		r.Post("/login", s.handlers.Auth.Login)
		r.Post("/logout", s.handlers.Auth.Logout)
		r.Get("/session", s.handlers.Auth.Session)
	})

	s.router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(s.sessions, s.logger))
		r.Get("/products", s.handlers.Products.AdminListProducts)
		r.Post("/products", s.handlers.Products.CreateProduct)
		r.Put("/products/{id}", s.handlers.Products.ReplaceProduct)
		r.Delete("/products/{id}", s.handlers.Products.DeleteProduct)
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint fed by the OpenTelemetry Prometheus reader
	s.router.Get("/metrics", promhttp.HandlerFor(s.telemetry.Registry, promhttp.HandlerOpts{}).ServeHTTP)
}

// Handler returns the router wrapped with otelhttp for HTTP spans and metrics
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			routePattern := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					routePattern = pattern
				}
			}
			return []attribute.KeyValue{
				attribute.String("http.route", routePattern),
			}
		}),
	)
}

// Start listens and serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		slog.String("address", s.srv.Addr),
	)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
