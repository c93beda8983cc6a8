package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCartProduct  = errors.New("cart entry product id is required")
	ErrInvalidCartQuantity = errors.New("cart entry quantity must be at least 1")
)

// CartEntry associates a product with the desired quantity
type CartEntry struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Validate performs business validation on the entry
func (e *CartEntry) Validate() error {
	if strings.TrimSpace(e.ProductID) == "" {
		return ErrInvalidCartProduct
	}
	if e.Quantity < 1 {
		return ErrInvalidCartQuantity
	}
	return nil
}

// ClampQuantity applies the cart quantity floor of 1
func ClampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}

// FindCartEntry returns the index of the entry for productID, or -1
func FindCartEntry(cart []CartEntry, productID string) int {
	for i := range cart {
		if cart[i].ProductID == productID {
			return i
		}
	}
	return -1
}
