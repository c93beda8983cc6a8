package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Repositories groups the record stores the service works on
type Repositories struct {
	Products domain.ProductRepository
	Users    domain.UserRepository
	Cart     domain.CartRepository
	Sessions domain.SessionRepository
}

// StoreService handles catalog, cart, account and admin use cases.
// mu serializes every storage access, reads included: loads may seed or
// reset records.
type StoreService struct {
	mu sync.Mutex

	products domain.ProductRepository
	users    domain.UserRepository
	cart     domain.CartRepository
	sessions domain.SessionRepository

	tracer trace.Tracer
	logger *slog.Logger

	operations      metric.Int64Counter
	cartItemsAdded  metric.Int64Counter
	usersRegistered metric.Int64Counter
	loginAttempts   metric.Int64Counter
}

// NewStoreService creates a new store service
func NewStoreService(
	repos Repositories,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *StoreService {
	operations, _ := meter.Int64Counter(
		"storefront.operations",
		metric.WithDescription("Total number of storefront operations"),
	)

	cartItemsAdded, _ := meter.Int64Counter(
		"cart.items.added",
		metric.WithDescription("Total number of units added to the cart"),
	)

	usersRegistered, _ := meter.Int64Counter(
		"users.registered",
		metric.WithDescription("Total number of accounts created"),
	)

	loginAttempts, _ := meter.Int64Counter(
		"auth.login.attempts",
		metric.WithDescription("Total number of login attempts"),
	)

	return &StoreService{
		products:        repos.Products,
		users:           repos.Users,
		cart:            repos.Cart,
		sessions:        repos.Sessions,
		tracer:          tracer,
		logger:          logger,
		operations:      operations,
		cartItemsAdded:  cartItemsAdded,
		usersRegistered: usersRegistered,
		loginAttempts:   loginAttempts,
	}
}

func (s *StoreService) record(ctx context.Context, operation, result string) {
	s.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

// fail marks the span and operation as failed and logs err
func (s *StoreService) fail(ctx context.Context, span trace.Span, operation string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, operation+" failed")
	s.logger.ErrorContext(ctx, "Storefront operation failed",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	s.record(ctx, operation, "failure")
	return err
}
