package dto

import (
	"github.com/mrops-br/storefront-api/internal/domain"
)

// UpsertProductRequest represents an admin create or replace of a product
type UpsertProductRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Presentation string `json:"presentation"`
	Price        int64  `json:"price"`
	Stock        int    `json:"stock"`
	Image        string `json:"image"`
	IsFeatured   bool   `json:"isFeatured"`
}

// ToProduct converts the request into a domain Product
func (r *UpsertProductRequest) ToProduct() domain.Product {
	return domain.Product{
		ID:           r.ID,
		Name:         r.Name,
		Category:     r.Category,
		Description:  r.Description,
		Presentation: r.Presentation,
		Price:        r.Price,
		Stock:        r.Stock,
		Image:        r.Image,
		IsFeatured:   r.IsFeatured,
	}
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Presentation string `json:"presentation"`
	Price        int64  `json:"price"`
	Stock        int    `json:"stock"`
	Image        string `json:"image"`
	IsFeatured   bool   `json:"isFeatured"`
	InStock      bool   `json:"inStock"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		Description:  p.Description,
		Presentation: p.Presentation,
		Price:        p.Price,
		Stock:        p.Stock,
		Image:        p.Image,
		IsFeatured:   p.IsFeatured,
		InStock:      p.InStock(),
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}
