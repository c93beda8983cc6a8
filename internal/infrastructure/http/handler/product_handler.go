package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/app/service"
	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/response"
)

// ProductHandler handles catalog and admin product requests
type ProductHandler struct {
	service *service.StoreService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.StoreService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /products?category=&sort=. The category may be
// given by name or by slug (frutos-secos).
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	order, err := domain.ParseSortOrder(r.URL.Query().Get("sort"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	category := domain.CategoryFromSlug(r.URL.Query().Get("category"))

	products, err := h.service.FilteredProductsByCategory(r.Context(), category, order)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// ListFeatured handles GET /products/featured
func (h *ProductHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.FeaturedProducts(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(w, http.StatusNotFound, err)
		} else {
			response.Error(w, http.StatusInternalServerError, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// AdminListProducts handles GET /admin/products
func (h *ProductHandler) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.LoadProducts(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// CreateProduct handles POST /admin/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	h.upsert(w, r, &req, http.StatusCreated)
}

// ReplaceProduct handles PUT /admin/products/{id}
func (h *ProductHandler) ReplaceProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	req.ID = chi.URLParam(r, "id")

	h.upsert(w, r, &req, http.StatusOK)
}

func (h *ProductHandler) upsert(w http.ResponseWriter, r *http.Request, req *dto.UpsertProductRequest, status int) {
	product, err := h.service.UpsertProduct(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidProductID),
			errors.Is(err, domain.ErrInvalidProductName),
			errors.Is(err, domain.ErrInvalidProductPrice),
			errors.Is(err, domain.ErrInvalidProductStock):
			response.Error(w, http.StatusBadRequest, err)
		default:
			response.Error(w, http.StatusInternalServerError, err)
		}
		return
	}

	response.JSON(w, status, product)
}

// DeleteProduct handles DELETE /admin/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.NoContent(w)
}
