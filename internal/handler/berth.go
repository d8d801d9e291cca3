package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/yourorg/harbormaster/internal/service"
)

// BerthHandler handles the /catways endpoints
type BerthHandler struct {
	berths    *service.BerthService
	logger    *slog.Logger
	validator *validator.Validate
}

// NewBerthHandler creates a new berth handler
func NewBerthHandler(berths *service.BerthService, logger *slog.Logger, v *validator.Validate) *BerthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BerthHandler{berths: berths, logger: logger, validator: v}
}

// CreateBerthRequest represents the create payload. Number and type are
// fixed at creation.
type CreateBerthRequest struct {
	CatwayNumber int    `json:"catwayNumber" validate:"required,gt=0"`
	CatwayType   string `json:"catwayType" validate:"required,oneof=long short"`
	CatwayState  string `json:"catwayState" validate:"required,min=3,max=200"`
}

// UpdateBerthStateRequest represents the state-update payload. Any
// catwayNumber or catwayType fields in the body are ignored; they are
// immutable.
type UpdateBerthStateRequest struct {
	CatwayState string `json:"catwayState" validate:"required,min=3,max=200"`
}

// berthNumber parses the {number} path segment
func berthNumber(r *http.Request) (int, bool) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number <= 0 {
		return 0, false
	}
	return number, true
}

// List handles GET /catways. Each berth carries its derived status.
func (h *BerthHandler) List(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.berths.List()
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, statuses)
}

// Get handles GET /catways/{number}
func (h *BerthHandler) Get(w http.ResponseWriter, r *http.Request) {
	number, ok := berthNumber(r)
	if !ok {
		respondError(w, h.logger, http.StatusBadRequest, "invalid catway number")
		return
	}

	berth, err := h.berths.Get(number)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, berth)
}

// Create handles POST /catways
func (h *BerthHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBerthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode berth payload", slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	berth, err := h.berths.Create(req.CatwayNumber, req.CatwayType, req.CatwayState)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, berth)
}

// UpdateState handles PUT /catways/{number}
func (h *BerthHandler) UpdateState(w http.ResponseWriter, r *http.Request) {
	number, ok := berthNumber(r)
	if !ok {
		respondError(w, h.logger, http.StatusBadRequest, "invalid catway number")
		return
	}

	var req UpdateBerthStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode state payload", slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusBadRequest, "invalid request")
		return
	}

	if req.CatwayState == "" {
		respondError(w, h.logger, http.StatusBadRequest, "catwayState is required")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	berth, err := h.berths.UpdateState(number, req.CatwayState)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, berth)
}

// Delete handles DELETE /catways/{number}. The ack is returned whether
// or not a berth matched.
func (h *BerthHandler) Delete(w http.ResponseWriter, r *http.Request) {
	number, ok := berthNumber(r)
	if !ok {
		respondError(w, h.logger, http.StatusBadRequest, "invalid catway number")
		return
	}

	if err := h.berths.Delete(number); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, AckResponse{Message: "delete_ok"})
}
