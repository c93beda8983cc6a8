package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/app/service"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/response"
)

// AuthHandler handles account and session requests
type AuthHandler struct {
	service *service.StoreService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *service.StoreService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.service.RegisterUser(r.Context(), &req)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	status := http.StatusCreated
	switch result.Outcome {
	case dto.OutcomeEmailTaken:
		status = http.StatusConflict
	case dto.OutcomeInvalidRegistration:
		status = http.StatusBadRequest
	}
	response.JSON(w, status, result)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.service.LoginUser(r.Context(), &req)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	status := http.StatusOK
	if !result.OK {
		status = http.StatusUnauthorized
	}
	response.JSON(w, status, result)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.LogoutUser(r.Context()); err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.NoContent(w)
}

// Session handles GET /auth/session. Anonymous visitors get {"user":null}.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.CurrentUser(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{"user": user})
}
