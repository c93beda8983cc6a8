package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// KVStore is a Redis implementation of domain.KeyValueStore.
// Records never expire.
type KVStore struct {
	client *goredis.Client
	tracer trace.Tracer
	logger *slog.Logger
}

// NewKVStore wraps an existing client
func NewKVStore(client *goredis.Client, tracer trace.Tracer, logger *slog.Logger) *KVStore {
	return &KVStore{
		client: client,
		tracer: tracer,
		logger: logger,
	}
}

// Open parses redisURL, connects and pings the server
func Open(ctx context.Context, redisURL string, tracer trace.Tracer, logger *slog.Logger) (*KVStore, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := goredis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis", slog.String("addr", opt.Addr), slog.Int("db", opt.DB))

	return NewKVStore(client, tracer, logger), nil
}

// Get retrieves the value stored under key
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, span := s.tracer.Start(ctx, "redis.KVStore.Get")
	defer span.End()

	span.SetAttributes(attribute.String("kv.key", key))

	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		span.SetAttributes(attribute.Bool("kv.found", false))
		span.SetStatus(codes.Ok, "")
		return "", false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Redis GET failed")
		s.logger.ErrorContext(ctx, "Failed to read key from Redis",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}

	span.SetAttributes(attribute.Bool("kv.found", true))
	span.SetStatus(codes.Ok, "")
	return value, true, nil
}

// Set stores value under key
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	ctx, span := s.tracer.Start(ctx, "redis.KVStore.Set")
	defer span.End()

	span.SetAttributes(
		attribute.String("kv.key", key),
		attribute.Int("kv.size", len(value)),
	)

	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Redis SET failed")
		s.logger.ErrorContext(ctx, "Failed to write key to Redis",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Remove deletes key. Missing keys are not an error.
func (s *KVStore) Remove(ctx context.Context, key string) error {
	ctx, span := s.tracer.Start(ctx, "redis.KVStore.Remove")
	defer span.End()

	span.SetAttributes(attribute.String("kv.key", key))

	if err := s.client.Del(ctx, key).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Redis DEL failed")
		s.logger.ErrorContext(ctx, "Failed to remove key from Redis",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("redis del %s: %w", key, err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Close releases the client connection pool
func (s *KVStore) Close() error {
	return s.client.Close()
}
