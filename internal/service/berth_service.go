package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yourorg/harbormaster/internal/domain"
)

const (
	minStateLength = 3
	maxStateLength = 200
)

// BerthService owns berth records: creation, state updates, deletion and
// the listing view augmented with derived availability.
type BerthService struct {
	berths  domain.BerthRepository
	deriver *AvailabilityDeriver
	logger  *slog.Logger
}

// NewBerthService creates a new berth service
func NewBerthService(berths domain.BerthRepository, deriver *AvailabilityDeriver, logger *slog.Logger) *BerthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BerthService{
		berths:  berths,
		deriver: deriver,
		logger:  logger,
	}
}

func validateState(state string) error {
	state = strings.TrimSpace(state)
	if len(state) < minStateLength || len(state) > maxStateLength {
		return domain.NewValidationError("catwayState",
			fmt.Sprintf("must be between %d and %d characters", minStateLength, maxStateLength))
	}
	return nil
}

// List returns every berth with its derived availability status
func (s *BerthService) List() ([]domain.BerthStatus, error) {
	berths, err := s.berths.List()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	statuses := make([]domain.BerthStatus, 0, len(berths))
	for _, b := range berths {
		status, err := s.deriver.DeriveStatus(b.Number, now)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, domain.BerthStatus{Berth: *b, Status: status})
	}

	return statuses, nil
}

// Get returns one berth by number
func (s *BerthService) Get(number int) (*domain.Berth, error) {
	return s.berths.GetByNumber(number)
}

// Create registers a new berth. Number and type are immutable afterwards.
func (s *BerthService) Create(number int, berthType, state string) (*domain.Berth, error) {
	if number <= 0 {
		return nil, domain.NewValidationError("catwayNumber", "must be a positive integer")
	}
	if !domain.ValidBerthType(berthType) {
		return nil, domain.NewValidationError("catwayType", "must be 'long' or 'short'")
	}
	if err := validateState(state); err != nil {
		return nil, err
	}

	berth := &domain.Berth{
		Number: number,
		Type:   berthType,
		State:  strings.TrimSpace(state),
	}

	if err := s.berths.Create(berth); err != nil {
		return nil, err
	}

	s.logger.Info("berth created",
		slog.Int("number", berth.Number),
		slog.String("type", berth.Type),
	)

	return berth, nil
}

// UpdateState changes a berth's state description, the only mutable field
func (s *BerthService) UpdateState(number int, state string) (*domain.Berth, error) {
	if strings.TrimSpace(state) == "" {
		return nil, domain.NewValidationError("catwayState", "is required")
	}
	if err := validateState(state); err != nil {
		return nil, err
	}

	berth, err := s.berths.UpdateState(number, strings.TrimSpace(state))
	if err != nil {
		return nil, err
	}

	s.logger.Info("berth state updated", slog.Int("number", number))
	return berth, nil
}

// Delete removes a berth. Absence of a match is not an error.
func (s *BerthService) Delete(number int) error {
	if err := s.berths.Delete(number); err != nil {
		return err
	}
	s.logger.Info("berth deleted", slog.Int("number", number))
	return nil
}
