package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/yourorg/harbormaster/internal/domain"
	"github.com/yourorg/harbormaster/internal/service"
)

// AuthHandler handles login and logout
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{authService: authService, logger: logger}
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login. Missing fields, unknown user and
// wrong password are reported distinctly (400, 404, 403).
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode login request", slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusBadRequest, "invalid request")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, h.logger, http.StatusBadRequest, "email_and_password_required")
		return
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			respondError(w, h.logger, http.StatusNotFound, "user_not_found")
		case errors.Is(err, domain.ErrInvalidCredentials):
			respondError(w, h.logger, http.StatusForbidden, "wrong_credentials")
		default:
			respondDomainError(w, h.logger, err)
		}
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// Logout handles GET/POST /auth/logout. Sessions are stateless, so
// logging out is a client-side token discard; the server just acks.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, AckResponse{Message: "logout_success"})
}
