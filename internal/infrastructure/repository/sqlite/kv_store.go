// Package sqlite provides a SQLite-backed key-value store for storefront records.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_records (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// KVStore persists records in a single SQLite table
type KVStore struct {
	sqlDB  *sql.DB
	tracer trace.Tracer
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and ensures the schema
func Open(ctx context.Context, path string, tracer trace.Tracer, logger *slog.Logger) (*KVStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	logger.Info("Opened SQLite store", slog.String("path", path))

	return &KVStore{sqlDB: sqlDB, tracer: tracer, logger: logger}, nil
}

// Close closes the SQLite handle.
func (s *KVStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get retrieves the value stored under key
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, span := s.tracer.Start(ctx, "sqlite.KVStore.Get")
	defer span.End()

	span.SetAttributes(attribute.String("kv.key", key))

	var value string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT value FROM kv_records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetAttributes(attribute.Bool("kv.found", false))
		span.SetStatus(codes.Ok, "")
		return "", false, nil
	}
	if err != nil {
		return "", false, s.fail(ctx, span, "get", key, err)
	}

	span.SetAttributes(attribute.Bool("kv.found", true))
	span.SetStatus(codes.Ok, "")
	return value, true, nil
}

// Set stores value under key
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	ctx, span := s.tracer.Start(ctx, "sqlite.KVStore.Set")
	defer span.End()

	span.SetAttributes(
		attribute.String("kv.key", key),
		attribute.Int("kv.size", len(value)),
	)

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO kv_records (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return s.fail(ctx, span, "set", key, err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Remove deletes key. Missing keys are not an error.
func (s *KVStore) Remove(ctx context.Context, key string) error {
	ctx, span := s.tracer.Start(ctx, "sqlite.KVStore.Remove")
	defer span.End()

	span.SetAttributes(attribute.String("kv.key", key))

	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM kv_records WHERE key = ?`, key); err != nil {
		return s.fail(ctx, span, "remove", key, err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *KVStore) fail(ctx context.Context, span trace.Span, op, key string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "SQLite "+op+" failed")
	s.logger.ErrorContext(ctx, "SQLite operation failed",
		slog.String("operation", op),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("sqlite %s %s: %w", op, key, err)
}
