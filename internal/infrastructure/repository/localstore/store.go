// Package localstore keeps the storefront records (products, users, cart and
// the current session) as JSON documents in a domain.KeyValueStore.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Keys names the four records of one storefront namespace
type Keys struct {
	Products    string
	Users       string
	Cart        string
	CurrentUser string
}

// NewKeys derives record keys from a namespace prefix
func NewKeys(namespace string) Keys {
	return Keys{
		Products:    namespace + "_products",
		Users:       namespace + "_users",
		Cart:        namespace + "_cart",
		CurrentUser: namespace + "_current_user",
	}
}

// Store implements the product, user, cart and session repositories
type Store struct {
	kv     domain.KeyValueStore
	keys   Keys
	tracer trace.Tracer
	logger *slog.Logger
}

var (
	_ domain.ProductRepository = (*Store)(nil)
	_ domain.UserRepository    = (*Store)(nil)
	_ domain.CartRepository    = (*Store)(nil)
	_ domain.SessionRepository = (*Store)(nil)
)

// NewStore creates a store over kv using the given namespace
func NewStore(kv domain.KeyValueStore, namespace string, tracer trace.Tracer, logger *slog.Logger) *Store {
	return &Store{
		kv:     kv,
		keys:   NewKeys(namespace),
		tracer: tracer,
		logger: logger,
	}
}

// Keys returns the record keys used by this store
func (s *Store) Keys() Keys {
	return s.keys
}

// LoadProducts returns the catalog, seeding it when the record is absent or unreadable
func (s *Store) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "localstore.LoadProducts")
	defer span.End()

	raw, ok, err := s.kv.Get(ctx, s.keys.Products)
	if err != nil {
		return nil, s.fail(span, "load products", err)
	}

	var products []domain.Product
	if ok {
		if decodeErr := json.Unmarshal([]byte(raw), &products); decodeErr != nil {
			s.logger.ErrorContext(ctx, "Failed to read products, reseeding",
				slog.String("key", s.keys.Products),
				slog.String("error", decodeErr.Error()),
			)
			span.AddEvent("products.reseeded")
			ok = false
		}
	}
	if !ok || products == nil {
		seeded, err := s.seedProducts(ctx)
		if err != nil {
			return nil, s.fail(span, "seed products", err)
		}
		span.SetAttributes(attribute.Int("product.count", len(seeded)))
		span.SetStatus(codes.Ok, "")
		return seeded, nil
	}

	valid := products[:0]
	for _, p := range products {
		if err := p.Validate(); err != nil {
			s.logger.WarnContext(ctx, "Dropping malformed stored product",
				slog.String("product_id", p.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		valid = append(valid, p)
	}

	span.SetAttributes(attribute.Int("product.count", len(valid)))
	span.SetStatus(codes.Ok, "")
	return valid, nil
}

// SaveProducts replaces the products record
func (s *Store) SaveProducts(ctx context.Context, products []domain.Product) error {
	ctx, span := s.tracer.Start(ctx, "localstore.SaveProducts")
	defer span.End()

	if products == nil {
		products = []domain.Product{}
	}
	span.SetAttributes(attribute.Int("product.count", len(products)))

	if err := s.write(ctx, s.keys.Products, products); err != nil {
		return s.fail(span, "save products", err)
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *Store) seedProducts(ctx context.Context) ([]domain.Product, error) {
	seed, err := domain.SeedProducts()
	if err != nil {
		return nil, err
	}
	if err := s.write(ctx, s.keys.Products, seed); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Seeded default catalog", slog.Int("count", len(seed)))
	return domain.CloneProducts(seed), nil
}

// LoadUsers returns the accounts. The built-in admin is appended and persisted
// when a stored list lacks it.
func (s *Store) LoadUsers(ctx context.Context) ([]domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "localstore.LoadUsers")
	defer span.End()

	raw, ok, err := s.kv.Get(ctx, s.keys.Users)
	if err != nil {
		return nil, s.fail(span, "load users", err)
	}

	var users []domain.User
	if ok {
		if decodeErr := json.Unmarshal([]byte(raw), &users); decodeErr != nil {
			s.logger.ErrorContext(ctx, "Failed to read users, reseeding",
				slog.String("key", s.keys.Users),
				slog.String("error", decodeErr.Error()),
			)
			span.AddEvent("users.reseeded")
			ok = false
		}
	}

	admin, err := domain.SeedAdmin()
	if err != nil {
		return nil, s.fail(span, "seed admin", err)
	}

	if !ok || users == nil {
		seeded := []domain.User{admin}
		if err := s.write(ctx, s.keys.Users, seeded); err != nil {
			return nil, s.fail(span, "seed users", err)
		}
		s.logger.InfoContext(ctx, "Seeded default accounts")
		span.SetStatus(codes.Ok, "")
		return seeded, nil
	}

	valid := users[:0]
	for _, u := range users {
		if err := u.Validate(); err != nil {
			s.logger.WarnContext(ctx, "Dropping malformed stored user",
				slog.String("email", u.Email),
				slog.String("error", err.Error()),
			)
			continue
		}
		valid = append(valid, u)
	}

	if domain.FindUserByEmail(valid, admin.Email) < 0 {
		valid = append(valid, admin)
		if err := s.write(ctx, s.keys.Users, valid); err != nil {
			return nil, s.fail(span, "restore admin", err)
		}
		s.logger.WarnContext(ctx, "Built-in admin account was missing and has been restored")
	}

	span.SetAttributes(attribute.Int("user.count", len(valid)))
	span.SetStatus(codes.Ok, "")
	return valid, nil
}

// SaveUsers replaces the users record
func (s *Store) SaveUsers(ctx context.Context, users []domain.User) error {
	ctx, span := s.tracer.Start(ctx, "localstore.SaveUsers")
	defer span.End()

	if users == nil {
		users = []domain.User{}
	}
	if err := s.write(ctx, s.keys.Users, users); err != nil {
		return s.fail(span, "save users", err)
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// CurrentUser returns the session user, or nil when anonymous
func (s *Store) CurrentUser(ctx context.Context) (*domain.SessionUser, error) {
	ctx, span := s.tracer.Start(ctx, "localstore.CurrentUser")
	defer span.End()

	raw, ok, err := s.kv.Get(ctx, s.keys.CurrentUser)
	if err != nil {
		return nil, s.fail(span, "load session", err)
	}
	if !ok {
		span.SetStatus(codes.Ok, "")
		return nil, nil
	}

	var user *domain.SessionUser
	decodeErr := json.Unmarshal([]byte(raw), &user)
	if decodeErr == nil && user != nil && user.Email == "" {
		decodeErr = domain.ErrInvalidUserEmail
	}
	if decodeErr != nil {
		s.logger.ErrorContext(ctx, "Failed to read session, clearing it",
			slog.String("key", s.keys.CurrentUser),
			slog.String("error", decodeErr.Error()),
		)
		if err := s.kv.Remove(ctx, s.keys.CurrentUser); err != nil {
			return nil, s.fail(span, "clear session", err)
		}
		span.SetStatus(codes.Ok, "")
		return nil, nil
	}

	span.SetStatus(codes.Ok, "")
	return user, nil
}

// SetCurrentUser stores the session. A nil user removes the record entirely.
func (s *Store) SetCurrentUser(ctx context.Context, user *domain.SessionUser) error {
	ctx, span := s.tracer.Start(ctx, "localstore.SetCurrentUser")
	defer span.End()

	if user == nil {
		if err := s.kv.Remove(ctx, s.keys.CurrentUser); err != nil {
			return s.fail(span, "clear session", err)
		}
		span.SetStatus(codes.Ok, "")
		return nil
	}

	if err := s.write(ctx, s.keys.CurrentUser, user); err != nil {
		return s.fail(span, "save session", err)
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// LoadCart returns the cart entries; an absent record is an empty cart
func (s *Store) LoadCart(ctx context.Context) ([]domain.CartEntry, error) {
	ctx, span := s.tracer.Start(ctx, "localstore.LoadCart")
	defer span.End()

	raw, ok, err := s.kv.Get(ctx, s.keys.Cart)
	if err != nil {
		return nil, s.fail(span, "load cart", err)
	}
	if !ok {
		span.SetStatus(codes.Ok, "")
		return []domain.CartEntry{}, nil
	}

	var cart []domain.CartEntry
	if decodeErr := json.Unmarshal([]byte(raw), &cart); decodeErr != nil {
		s.logger.ErrorContext(ctx, "Failed to read cart, resetting it",
			slog.String("key", s.keys.Cart),
			slog.String("error", decodeErr.Error()),
		)
		if err := s.write(ctx, s.keys.Cart, []domain.CartEntry{}); err != nil {
			return nil, s.fail(span, "reset cart", err)
		}
		span.SetStatus(codes.Ok, "")
		return []domain.CartEntry{}, nil
	}

	valid := make([]domain.CartEntry, 0, len(cart))
	for _, entry := range cart {
		if err := entry.Validate(); err != nil {
			s.logger.WarnContext(ctx, "Dropping malformed cart entry",
				slog.String("product_id", entry.ProductID),
				slog.Int("quantity", entry.Quantity),
				slog.String("error", err.Error()),
			)
			continue
		}
		valid = append(valid, entry)
	}

	span.SetAttributes(attribute.Int("cart.entries", len(valid)))
	span.SetStatus(codes.Ok, "")
	return valid, nil
}

// SaveCart replaces the cart record
func (s *Store) SaveCart(ctx context.Context, cart []domain.CartEntry) error {
	ctx, span := s.tracer.Start(ctx, "localstore.SaveCart")
	defer span.End()

	if cart == nil {
		cart = []domain.CartEntry{}
	}
	span.SetAttributes(attribute.Int("cart.entries", len(cart)))

	if err := s.write(ctx, s.keys.Cart, cart); err != nil {
		return s.fail(span, "save cart", err)
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *Store) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, string(data))
}

func (s *Store) fail(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, op+" failed")
	return fmt.Errorf("%s: %w", op, err)
}
