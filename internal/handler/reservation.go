package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yourorg/harbormaster/internal/domain"
	"github.com/yourorg/harbormaster/internal/service"
)

// ReservationHandler handles the reservation endpoints, scoped under
// /catways/{number}/reservations plus the global /reservations view.
type ReservationHandler struct {
	reservations *service.ReservationService
	logger       *slog.Logger
	validator    *validator.Validate
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservations *service.ReservationService, logger *slog.Logger, v *validator.Validate) *ReservationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReservationHandler{reservations: reservations, logger: logger, validator: v}
}

// CreateReservationRequest represents the create payload. Dates accept
// RFC 3339 or plain YYYY-MM-DD.
type CreateReservationRequest struct {
	ClientName string `json:"clientName" validate:"required,min=2,max=100"`
	BoatName   string `json:"boatName" validate:"required,min=2,max=100"`
	StartDate  string `json:"startDate" validate:"required"`
	EndDate    string `json:"endDate" validate:"required"`
}

// UpdateReservationRequest represents the partial update payload; absent
// fields are left unchanged.
type UpdateReservationRequest struct {
	ClientName *string `json:"clientName" validate:"omitempty,min=2,max=100"`
	BoatName   *string `json:"boatName" validate:"omitempty,min=2,max=100"`
	StartDate  *string `json:"startDate"`
	EndDate    *string `json:"endDate"`
}

// parseDate accepts a full timestamp or a bare date
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// ListForBerth handles GET /catways/{number}/reservations
func (h *ReservationHandler) ListForBerth(w http.ResponseWriter, r *http.Request) {
	number, ok := berthNumber(r)
	if !ok {
		respondError(w, h.logger, http.StatusBadRequest, "invalid catway number")
		return
	}

	reservations, err := h.reservations.ListForBerth(number)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	if reservations == nil {
		reservations = []*domain.Reservation{}
	}
	respondJSON(w, h.logger, http.StatusOK, reservations)
}

// ListAll handles GET /reservations, the administrative view
func (h *ReservationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.reservations.ListAll()
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	if reservations == nil {
		reservations = []*domain.Reservation{}
	}
	respondJSON(w, h.logger, http.StatusOK, reservations)
}

// Get handles GET /catways/{number}/reservations/{id}
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	number, ok := berthNumber(r)
	if !ok {
		respondError(w, h.logger, http.StatusBadRequest, "invalid catway number")
		return
	}

	res, err := h.reservations.Get(number, r.PathValue("id"))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, res)
}

// Create handles POST /catways/{number}/reservations
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	number, ok := berthNumber(r)
	if !ok {
		respondError(w, h.logger, http.StatusBadRequest, "invalid catway number")
		return
	}

	var req CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode reservation payload", slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid startDate")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid endDate")
		return
	}

	res, err := h.reservations.Create(&domain.Reservation{
		BerthNumber: number,
		ClientName:  req.ClientName,
		BoatName:    req.BoatName,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, res)
}

// Update handles PUT /catways/{number}/reservations/{id}
func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	number, ok := berthNumber(r)
	if !ok {
		respondError(w, h.logger, http.StatusBadRequest, "invalid catway number")
		return
	}

	var req UpdateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode reservation patch", slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	patch := domain.ReservationPatch{
		ClientName: req.ClientName,
		BoatName:   req.BoatName,
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			respondError(w, h.logger, http.StatusBadRequest, "invalid startDate")
			return
		}
		patch.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			respondError(w, h.logger, http.StatusBadRequest, "invalid endDate")
			return
		}
		patch.EndDate = &end
	}

	res, err := h.reservations.Update(number, r.PathValue("id"), patch)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, res)
}

// Delete handles DELETE /catways/{number}/reservations/{id}. A miss on
// the (id, berth) pair is a 404, unlike berth deletion.
func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	number, ok := berthNumber(r)
	if !ok {
		respondError(w, h.logger, http.StatusBadRequest, "invalid catway number")
		return
	}

	if err := h.reservations.Delete(number, r.PathValue("id")); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, AckResponse{Message: "delete_ok"})
}
