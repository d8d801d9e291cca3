package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/yourorg/harbormaster/internal/domain"
)

// ErrorResponse represents an error response body
type ErrorResponse struct {
	Error string `json:"error"`
}

// AckResponse is the body returned by delete/logout style operations
type AckResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.Error("failed to encode response", slog.String("error", err.Error()))
		}
	}
}

func respondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	respondJSON(w, logger, status, ErrorResponse{Error: message})
}

// respondDomainError maps a typed service failure to an HTTP status.
// Unknown errors collapse to a generic 500 so internals never leak.
func respondDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(w, logger, http.StatusBadRequest, ve.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, logger, http.StatusNotFound, "not_found")
	case errors.Is(err, domain.ErrDuplicate):
		respondError(w, logger, http.StatusConflict, "already_exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(w, logger, http.StatusForbidden, "wrong_credentials")
	default:
		logger.Error("request failed", slog.String("error", err.Error()))
		respondError(w, logger, http.StatusInternalServerError, "internal_error")
	}
}
