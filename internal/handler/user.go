package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/yourorg/harbormaster/internal/domain"
	"github.com/yourorg/harbormaster/internal/service"
)

// UserHandler handles the /users endpoints. Every response strips the
// password hash.
type UserHandler struct {
	users     *service.UserService
	logger    *slog.Logger
	validator *validator.Validate
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *service.UserService, logger *slog.Logger, v *validator.Validate) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{users: users, logger: logger, validator: v}
}

// CreateUserRequest represents the registration payload. Password
// strength is enforced by the user service.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest represents the partial update payload
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password"`
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.users.List()
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, views)
}

// Get handles GET /users/{email}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.users.Get(r.PathValue("email"))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, view)
}

// Create handles POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode user payload", slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	view, err := h.users.Create(req.Username, req.Email, req.Password)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, view)
}

// Update handles PUT /users/{email}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode user patch", slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	view, err := h.users.Update(r.PathValue("email"), domain.UserPatch{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, view)
}

// Delete handles DELETE /users/{email}. The ack is returned whether or
// not a user matched.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.PathValue("email")); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, AckResponse{Message: "delete_ok"})
}
