package memory

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// KVStore is an in-memory implementation of domain.KeyValueStore
type KVStore struct {
	mu     sync.RWMutex
	values map[string]string
	tracer trace.Tracer
	logger *slog.Logger
}

// NewKVStore creates a new in-memory key-value store
func NewKVStore(tracer trace.Tracer, logger *slog.Logger) *KVStore {
	return &KVStore{
		values: make(map[string]string),
		tracer: tracer,
		logger: logger,
	}
}

// Get retrieves the value stored under key
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, span := s.tracer.Start(ctx, "memory.KVStore.Get")
	defer span.End()

	span.SetAttributes(attribute.String("kv.key", key))

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	span.SetAttributes(attribute.Bool("kv.found", ok))

	s.logger.DebugContext(ctx, "Key read from memory store",
		slog.String("key", key),
		slog.Bool("found", ok),
	)

	span.SetStatus(codes.Ok, "")
	return value, ok, nil
}

// Set stores value under key
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	ctx, span := s.tracer.Start(ctx, "memory.KVStore.Set")
	defer span.End()

	span.SetAttributes(
		attribute.String("kv.key", key),
		attribute.Int("kv.size", len(value)),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value

	s.logger.DebugContext(ctx, "Key written to memory store",
		slog.String("key", key),
		slog.Int("size", len(value)),
	)

	span.SetStatus(codes.Ok, "")
	return nil
}

// Remove deletes key. Missing keys are not an error.
func (s *KVStore) Remove(ctx context.Context, key string) error {
	ctx, span := s.tracer.Start(ctx, "memory.KVStore.Remove")
	defer span.End()

	span.SetAttributes(attribute.String("kv.key", key))

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)

	s.logger.DebugContext(ctx, "Key removed from memory store",
		slog.String("key", key),
	)

	span.SetStatus(codes.Ok, "")
	return nil
}

// Close is a no-op; it lets the memory store stand in wherever a closable backend is expected
func (s *KVStore) Close() error {
	return nil
}
