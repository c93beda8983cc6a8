package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// KeyValueStore is the persistent string store the storefront records live in.
// Get reports ok=false when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// ProductRepository defines the contract for the products record
type ProductRepository interface {
	LoadProducts(ctx context.Context) ([]Product, error)
	SaveProducts(ctx context.Context, products []Product) error
}

// UserRepository defines the contract for the users record
type UserRepository interface {
	LoadUsers(ctx context.Context) ([]User, error)
	SaveUsers(ctx context.Context, users []User) error
}

// CartRepository defines the contract for the cart record
type CartRepository interface {
	LoadCart(ctx context.Context) ([]CartEntry, error)
	SaveCart(ctx context.Context, cart []CartEntry) error
}

// SessionRepository defines the contract for the current session pointer.
// A nil user clears the session.
type SessionRepository interface {
	CurrentUser(ctx context.Context) (*SessionUser, error)
	SetCurrentUser(ctx context.Context, user *SessionUser) error
}
