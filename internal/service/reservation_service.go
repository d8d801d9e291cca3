package service

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/yourorg/harbormaster/internal/domain"
	"github.com/yourorg/harbormaster/internal/observability/metrics"
)

const (
	minNameLength = 2
	maxNameLength = 100
)

// ReservationService owns reservation records scoped to berths. Creation
// always validates berth existence first; an unknown berth is reported
// as not found before any write happens.
type ReservationService struct {
	reservations domain.ReservationRepository
	berths       domain.BerthRepository
	deriver      *AvailabilityDeriver
	logger       *slog.Logger
}

// NewReservationService creates a new reservation service
func NewReservationService(
	reservations domain.ReservationRepository,
	berths domain.BerthRepository,
	deriver *AvailabilityDeriver,
	logger *slog.Logger,
) *ReservationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReservationService{
		reservations: reservations,
		berths:       berths,
		deriver:      deriver,
		logger:       logger,
	}
}

func validateName(field, value string) error {
	value = strings.TrimSpace(value)
	if len(value) < minNameLength || len(value) > maxNameLength {
		return domain.NewValidationError(field,
			fmt.Sprintf("must be between %d and %d characters", minNameLength, maxNameLength))
	}
	return nil
}

// validateReservation checks the invariants of a complete reservation
// record. Update paths call it on the merged result, not just on the
// fields present in the request.
func validateReservation(res *domain.Reservation) error {
	if err := validateName("clientName", res.ClientName); err != nil {
		return err
	}
	if err := validateName("boatName", res.BoatName); err != nil {
		return err
	}
	if res.StartDate.IsZero() || res.EndDate.IsZero() {
		return domain.NewValidationError("dates", "startDate and endDate are required")
	}
	if !res.StartDate.Before(res.EndDate) {
		return domain.NewValidationError("dates", "startDate must be strictly before endDate")
	}
	return nil
}

// ListForBerth returns all reservations for one berth. The berth must exist.
func (s *ReservationService) ListForBerth(berthNumber int) ([]*domain.Reservation, error) {
	if _, err := s.berths.GetByNumber(berthNumber); err != nil {
		return nil, err
	}
	return s.reservations.ListByBerth(berthNumber)
}

// ListAll returns the unscoped administrative view of the ledger
func (s *ReservationService) ListAll() ([]*domain.Reservation, error) {
	return s.reservations.List()
}

// Get returns a reservation matching both the id and the berth scope
func (s *ReservationService) Get(berthNumber int, id string) (*domain.Reservation, error) {
	return s.reservations.GetByID(berthNumber, id)
}

// Create books a berth for a client and boat over a date range
func (s *ReservationService) Create(res *domain.Reservation) (*domain.Reservation, error) {
	if err := validateReservation(res); err != nil {
		return nil, err
	}

	// Strict variant: the berth must exist before any insert.
	if _, err := s.berths.GetByNumber(res.BerthNumber); err != nil {
		return nil, err
	}

	res.ID = uuid.NewString()
	res.ClientName = strings.TrimSpace(res.ClientName)
	res.BoatName = strings.TrimSpace(res.BoatName)

	if err := s.reservations.Create(res); err != nil {
		return nil, err
	}

	s.deriver.Invalidate(res.BerthNumber)
	metrics.ObserveReservationCreated()

	s.logger.Info("reservation created",
		slog.String("id", res.ID),
		slog.Int("catway_number", res.BerthNumber),
		slog.Time("start_date", res.StartDate),
		slog.Time("end_date", res.EndDate),
	)

	return res, nil
}

// Update applies a partial patch to a reservation and re-validates the
// merged record before persisting.
func (s *ReservationService) Update(berthNumber int, id string, patch domain.ReservationPatch) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(berthNumber, id)
	if err != nil {
		return nil, err
	}

	if patch.ClientName != nil {
		res.ClientName = strings.TrimSpace(*patch.ClientName)
	}
	if patch.BoatName != nil {
		res.BoatName = strings.TrimSpace(*patch.BoatName)
	}
	if patch.StartDate != nil {
		res.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		res.EndDate = *patch.EndDate
	}

	if err := validateReservation(res); err != nil {
		return nil, err
	}

	if err := s.reservations.Update(res); err != nil {
		return nil, err
	}

	s.deriver.Invalidate(berthNumber)

	s.logger.Info("reservation updated",
		slog.String("id", id),
		slog.Int("catway_number", berthNumber),
	)

	return res, nil
}

// Delete removes a reservation by the exact (id, berth) pair. Unlike
// berth deletion, a miss is reported as not found.
func (s *ReservationService) Delete(berthNumber int, id string) error {
	if err := s.reservations.Delete(berthNumber, id); err != nil {
		return err
	}

	s.deriver.Invalidate(berthNumber)

	s.logger.Info("reservation deleted",
		slog.String("id", id),
		slog.Int("catway_number", berthNumber),
	)

	return nil
}
