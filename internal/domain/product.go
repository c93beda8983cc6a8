package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidProductID    = errors.New("product id is required")
	ErrInvalidProductName  = errors.New("product name is required")
	ErrInvalidProductPrice = errors.New("product price must not be negative")
	ErrInvalidProductStock = errors.New("product stock must not be negative")
)

// CategoryAll is the category filter value that matches every product
const CategoryAll = "all"

// DefaultProductImage is stored for products saved without an image
const DefaultProductImage = "assets/img/otros.jpg"

// featuredFallbackSize caps the landing page list when nothing is flagged
const featuredFallbackSize = 4

// categorySlugs maps URL slugs to catalog categories
var categorySlugs = map[string]string{
	"huevos":       "Huevos",
	"quesos":       "Quesos",
	"frutos-secos": "Frutos secos",
	"otros":        "Otros",
}

// Product represents the catalog entity
type Product struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Category     string `json:"category" yaml:"category"`
	Description  string `json:"description" yaml:"description"`
	Presentation string `json:"presentation" yaml:"presentation"`
	Price        int64  `json:"price" yaml:"price"`
	Stock        int    `json:"stock" yaml:"stock"`
	Image        string `json:"image" yaml:"image"`
	IsFeatured   bool   `json:"isFeatured" yaml:"isFeatured"`
}

// NewProductID returns a fresh product identifier
func NewProductID() string {
	return uuid.New().String()
}

// Validate performs business validation on the product
func (p *Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrInvalidProductID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidProductName
	}
	if p.Price < 0 {
		return ErrInvalidProductPrice
	}
	if p.Stock < 0 {
		return ErrInvalidProductStock
	}
	return nil
}

// ApplyDefaults fills optional fields left empty by the admin form
func (p *Product) ApplyDefaults() {
	if strings.TrimSpace(p.Image) == "" {
		p.Image = DefaultProductImage
	}
}

// InStock reports whether at least one unit is available
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// IsAllCategories reports whether a category filter selects the whole catalog.
// The storefront UI historically sent "Todas", so it is accepted too.
func IsAllCategories(category string) bool {
	c := strings.TrimSpace(category)
	return c == "" || strings.EqualFold(c, CategoryAll) || strings.EqualFold(c, "Todas")
}

// FindProduct returns the index of the product with the given id, or -1
func FindProduct(products []Product, id string) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}

// CloneProducts returns a copy that shares no backing array with the input
func CloneProducts(products []Product) []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

// CategoryFromSlug resolves a URL slug such as "frutos-secos" to its
// category. Values that are not a known slug come back unchanged.
func CategoryFromSlug(value string) string {
	if category, ok := categorySlugs[strings.ToLower(strings.TrimSpace(value))]; ok {
		return category
	}
	return value
}

// SelectFeatured returns the flagged products. When none is flagged it falls
// back to the first in-stock products, then to the first products of the
// catalog.
func SelectFeatured(products []Product) []Product {
	featured := make([]Product, 0, len(products))
	for _, p := range products {
		if p.IsFeatured {
			featured = append(featured, p)
		}
	}
	if len(featured) > 0 {
		return featured
	}

	for _, p := range products {
		if p.InStock() {
			featured = append(featured, p)
			if len(featured) == featuredFallbackSize {
				break
			}
		}
	}
	if len(featured) > 0 {
		return featured
	}

	n := min(len(products), featuredFallbackSize)
	return append(featured, products[:n]...)
}
