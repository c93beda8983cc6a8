package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// LoadProducts returns the whole catalog
func (s *StoreService) LoadProducts(ctx context.Context) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.LoadProducts")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.products.LoadProducts(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "list", err)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.record(ctx, "list", "success")
	span.SetStatus(codes.Ok, "Products listed successfully")
	return dto.ToProductResponseList(products), nil
}

// GetProduct retrieves a product by ID
func (s *StoreService) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.GetProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.products.LoadProducts(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "read", err)
	}

	i := domain.FindProduct(products, id)
	if i < 0 {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		s.logger.WarnContext(ctx, "Product not found",
			slog.String("product_id", id),
		)
		s.record(ctx, "read", "not_found")
		return nil, domain.ErrProductNotFound
	}

	s.record(ctx, "read", "success")
	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductResponse(products[i]), nil
}

// FilteredProductsByCategory returns every product when category is empty or
// the "all" sentinel, otherwise the exact category matches. A non-empty order
// sorts the result.
func (s *StoreService) FilteredProductsByCategory(ctx context.Context, category string, order domain.SortOrder) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.FilteredProductsByCategory")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.category", category),
		attribute.String("sort.order", string(order)),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.products.LoadProducts(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "filter", err)
	}

	if !domain.IsAllCategories(category) {
		filtered := make([]domain.Product, 0, len(products))
		for _, p := range products {
			if p.Category == category {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	domain.SortProducts(products, order)

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.record(ctx, "filter", "success")
	span.SetStatus(codes.Ok, "")
	return dto.ToProductResponseList(products), nil
}

// FeaturedProducts returns the products for the landing page. See
// domain.SelectFeatured for the fallback when nothing is flagged.
func (s *StoreService) FeaturedProducts(ctx context.Context) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.FeaturedProducts")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.products.LoadProducts(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "featured", err)
	}

	featured := domain.SelectFeatured(products)

	span.SetAttributes(attribute.Int("product.count", len(featured)))
	s.record(ctx, "featured", "success")
	span.SetStatus(codes.Ok, "")
	return dto.ToProductResponseList(featured), nil
}

// UpsertProduct replaces the product with the same ID or appends it as new.
// New products without an ID get a fresh UUID and an empty image gets
// domain.DefaultProductImage.
func (s *StoreService) UpsertProduct(ctx context.Context, req *dto.UpsertProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.UpsertProduct")
	defer span.End()

	product := req.ToProduct()
	product.ID = strings.TrimSpace(product.ID)
	product.ApplyDefaults()

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.products.LoadProducts(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "upsert", err)
	}

	i := -1
	if product.ID != "" {
		i = domain.FindProduct(products, product.ID)
	}
	if i < 0 && product.ID == "" {
		product.ID = domain.NewProductID()
	}

	if err := product.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Validation failed")
		s.logger.WarnContext(ctx, "Rejected product upsert",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		s.record(ctx, "upsert", "invalid")
		return nil, err
	}

	mode := "insert"
	if i >= 0 {
		mode = "replace"
		products[i] = product
	} else {
		products = append(products, product)
	}
	span.SetAttributes(
		attribute.String("product.id", product.ID),
		attribute.String("upsert.mode", mode),
	)

	if err := s.products.SaveProducts(ctx, products); err != nil {
		return nil, s.fail(ctx, span, "upsert", err)
	}

	s.record(ctx, "upsert", "success")
	s.logger.InfoContext(ctx, "Product saved",
		slog.String("product_id", product.ID),
		slog.String("mode", mode),
	)

	span.SetStatus(codes.Ok, "Product saved successfully")
	return dto.ToProductResponse(product), nil
}

// DeleteProduct removes the product with the given ID. Unknown IDs are a no-op.
// Cart entries that pointed at it become orphans and are ignored by cart details.
func (s *StoreService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "StoreService.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.products.LoadProducts(ctx)
	if err != nil {
		return s.fail(ctx, span, "delete", err)
	}

	kept := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	removed := len(products) - len(kept)

	if err := s.products.SaveProducts(ctx, kept); err != nil {
		return s.fail(ctx, span, "delete", err)
	}

	span.SetAttributes(attribute.Int("product.removed", removed))
	s.record(ctx, "delete", "success")
	s.logger.InfoContext(ctx, "Product deleted",
		slog.String("product_id", id),
		slog.Int("removed", removed),
	)

	span.SetStatus(codes.Ok, "")
	return nil
}
