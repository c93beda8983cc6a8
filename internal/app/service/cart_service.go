package service

import (
	"context"
	"log/slog"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// LoadCart returns the raw cart entries
func (s *StoreService) LoadCart(ctx context.Context) ([]domain.CartEntry, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.LoadCart")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.cart.LoadCart(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "cart_load", err)
	}

	span.SetAttributes(attribute.Int("cart.entries", len(cart)))
	span.SetStatus(codes.Ok, "")
	return cart, nil
}

// AddProductToCart adds one unit of the product. It reports false and leaves
// the cart untouched when the product is unknown or out of stock. Stock is
// not checked beyond that.
func (s *StoreService) AddProductToCart(ctx context.Context, productID string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.AddProductToCart")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", productID))

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.products.LoadProducts(ctx)
	if err != nil {
		return false, s.fail(ctx, span, "cart_add", err)
	}

	i := domain.FindProduct(products, productID)
	if i < 0 || !products[i].InStock() {
		result := "not_found"
		if i >= 0 {
			result = "out_of_stock"
		}
		s.logger.InfoContext(ctx, "Product not added to cart",
			slog.String("product_id", productID),
			slog.String("reason", result),
		)
		s.record(ctx, "cart_add", result)
		span.SetStatus(codes.Ok, result)
		return false, nil
	}

	cart, err := s.cart.LoadCart(ctx)
	if err != nil {
		return false, s.fail(ctx, span, "cart_add", err)
	}

	if j := domain.FindCartEntry(cart, productID); j >= 0 {
		cart[j].Quantity++
	} else {
		cart = append(cart, domain.CartEntry{ProductID: productID, Quantity: 1})
	}

	if err := s.cart.SaveCart(ctx, cart); err != nil {
		return false, s.fail(ctx, span, "cart_add", err)
	}

	s.cartItemsAdded.Add(ctx, 1)
	s.record(ctx, "cart_add", "success")
	span.SetStatus(codes.Ok, "")
	return true, nil
}

// SetCartItemQuantity sets the quantity of an existing entry, clamped to at
// least 1. Entries are only dropped by RemoveCartItem. Absent entries are a no-op.
func (s *StoreService) SetCartItemQuantity(ctx context.Context, productID string, quantity int) error {
	ctx, span := s.tracer.Start(ctx, "StoreService.SetCartItemQuantity")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", productID),
		attribute.Int("cart.quantity.requested", quantity),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.cart.LoadCart(ctx)
	if err != nil {
		return s.fail(ctx, span, "cart_update", err)
	}

	i := domain.FindCartEntry(cart, productID)
	if i < 0 {
		s.record(ctx, "cart_update", "not_found")
		span.SetStatus(codes.Ok, "not in cart")
		return nil
	}

	cart[i].Quantity = domain.ClampQuantity(quantity)
	span.SetAttributes(attribute.Int("cart.quantity", cart[i].Quantity))

	if err := s.cart.SaveCart(ctx, cart); err != nil {
		return s.fail(ctx, span, "cart_update", err)
	}

	s.record(ctx, "cart_update", "success")
	span.SetStatus(codes.Ok, "")
	return nil
}

// CartQuantity returns how many units of the product are in the cart
func (s *StoreService) CartQuantity(ctx context.Context, productID string) (int, error) {
	cart, err := s.LoadCart(ctx)
	if err != nil {
		return 0, err
	}
	if i := domain.FindCartEntry(cart, productID); i >= 0 {
		return cart[i].Quantity, nil
	}
	return 0, nil
}

// RemoveCartItem drops the entry for the product, if any
func (s *StoreService) RemoveCartItem(ctx context.Context, productID string) error {
	ctx, span := s.tracer.Start(ctx, "StoreService.RemoveCartItem")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", productID))

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.cart.LoadCart(ctx)
	if err != nil {
		return s.fail(ctx, span, "cart_remove", err)
	}

	kept := make([]domain.CartEntry, 0, len(cart))
	for _, entry := range cart {
		if entry.ProductID != productID {
			kept = append(kept, entry)
		}
	}

	if err := s.cart.SaveCart(ctx, kept); err != nil {
		return s.fail(ctx, span, "cart_remove", err)
	}

	s.record(ctx, "cart_remove", "success")
	span.SetStatus(codes.Ok, "")
	return nil
}

// ClearCart empties the cart
func (s *StoreService) ClearCart(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "StoreService.ClearCart")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.SaveCart(ctx, []domain.CartEntry{}); err != nil {
		return s.fail(ctx, span, "cart_clear", err)
	}

	s.record(ctx, "cart_clear", "success")
	span.SetStatus(codes.Ok, "")
	return nil
}

// CalculateCartDetails prices the cart against the current catalog. Entries
// whose product no longer exists are left out of both the lines and the total.
func (s *StoreService) CalculateCartDetails(ctx context.Context) (*dto.CartDetails, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.CalculateCartDetails")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.cart.LoadCart(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "cart_details", err)
	}

	products, err := s.products.LoadProducts(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "cart_details", err)
	}

	details := &dto.CartDetails{Items: make([]dto.CartLine, 0, len(cart))}
	orphans := 0
	for _, entry := range cart {
		i := domain.FindProduct(products, entry.ProductID)
		if i < 0 {
			orphans++
			continue
		}
		product := products[i]
		subtotal := product.Price * int64(entry.Quantity)
		details.Items = append(details.Items, dto.CartLine{
			ProductID: entry.ProductID,
			Quantity:  entry.Quantity,
			Product:   dto.ToProductResponse(product),
			Subtotal:  subtotal,
		})
		details.Total += subtotal
		details.ItemCount += entry.Quantity
	}

	if orphans > 0 {
		s.logger.DebugContext(ctx, "Cart entries reference missing products",
			slog.Int("orphans", orphans),
		)
	}

	span.SetAttributes(
		attribute.Int("cart.lines", len(details.Items)),
		attribute.Int64("cart.total", details.Total),
	)
	s.record(ctx, "cart_details", "success")
	span.SetStatus(codes.Ok, "")
	return details, nil
}
