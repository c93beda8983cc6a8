package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/app/service"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/response"
)

var errMissingProductID = errors.New("productId is required")

// CartHandler handles cart requests
type CartHandler struct {
	service *service.StoreService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(service *service.StoreService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeDetails(w, r, http.StatusOK)
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	if req.ProductID == "" {
		response.Error(w, http.StatusBadRequest, errMissingProductID)
		return
	}

	added, err := h.service.AddProductToCart(r.Context(), req.ProductID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	details, err := h.service.CalculateCartDetails(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.AddToCartResponse{Added: added, Cart: details})
}

// UpdateItem handles PUT /cart/items/{id}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	if err := h.service.SetCartItemQuantity(r.Context(), chi.URLParam(r, "id"), req.Quantity); err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	h.writeDetails(w, r, http.StatusOK)
}

// RemoveItem handles DELETE /cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveCartItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	h.writeDetails(w, r, http.StatusOK)
}

// Clear handles DELETE /cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCart(r.Context()); err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.NoContent(w)
}

func (h *CartHandler) writeDetails(w http.ResponseWriter, r *http.Request, status int) {
	details, err := h.service.CalculateCartDetails(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, status, details)
}
