package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/storefront-api/internal/app/service"
	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/mrops-br/storefront-api/internal/infrastructure/config"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/localstore"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/redis"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/sqlite"
	"github.com/mrops-br/storefront-api/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// kvBackend is a domain.KeyValueStore that owns a connection
type kvBackend interface {
	domain.KeyValueStore
	io.Closer
}

func openKV(ctx context.Context, cfg *config.StorageConfig, tracer trace.Tracer, logger *slog.Logger) (kvBackend, error) {
	switch cfg.Driver {
	case config.DriverRedis:
		return redis.Open(ctx, cfg.RedisURL, tracer, logger)
	case config.DriverSQLite:
		return sqlite.Open(ctx, cfg.SQLitePath, tracer, logger)
	case config.DriverMemory:
		return memory.NewKVStore(tracer, logger), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize OpenTelemetry
	telem, err := telemetry.New(&cfg.OTLP)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ensure telemetry is shutdown on exit
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer("storefront-api")
	meter := telem.MeterProvider.Meter("storefront-api")
	logger := telem.Logger

	logger.Info("Starting Storefront API",
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("namespace", cfg.Storage.Namespace),
	)

	kv, err := openKV(ctx, &cfg.Storage, tracer, logger)
	if err != nil {
		logger.Error("Failed to open storage", slog.String("error", err.Error()))
		return
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logger.Error("Failed to close storage", slog.String("error", err.Error()))
		}
	}()

	store := localstore.NewStore(kv, cfg.Storage.Namespace, tracer, logger)

	storeService := service.NewStoreService(service.Repositories{
		Products: store,
		Users:    store,
		Cart:     store,
		Sessions: store,
	}, tracer, meter, logger)

	server := http.NewServer(&cfg.Server, http.Handlers{
		Products: handler.NewProductHandler(storeService, logger),
		Cart:     handler.NewCartHandler(storeService, logger),
		Auth:     handler.NewAuthHandler(storeService, logger),
	}, storeService, telem)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}

	logger.Info("Server stopped")
}
