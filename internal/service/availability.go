package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/yourorg/harbormaster/internal/domain"
	"github.com/yourorg/harbormaster/internal/observability/metrics"
	"github.com/yourorg/harbormaster/pkg/cache"
)

// StatusFree is the availability label for a berth with no relevant reservation
const StatusFree = "Free"

// occupiedDateFormat is the short display form used in status labels,
// e.g. "Occupied until 1/10/2025". Stored dates keep full timestamps.
const occupiedDateFormat = "1/2/2006"

// AvailabilityDeriver computes the availability label of a berth from
// its reservations. The derivation looks only at the latest-ending
// reservation: a future-only reservation still marks the berth occupied
// until its end date. Overlapping reservations are not reconciled.
type AvailabilityDeriver struct {
	reservations domain.ReservationRepository
	statusCache  *cache.Cache
	cacheTTL     time.Duration
	logger       *slog.Logger
}

// NewAvailabilityDeriver creates an availability deriver. statusCache is
// optional; when set, derived labels are memoized for cacheTTL.
func NewAvailabilityDeriver(
	reservations domain.ReservationRepository,
	statusCache *cache.Cache,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *AvailabilityDeriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &AvailabilityDeriver{
		reservations: reservations,
		statusCache:  statusCache,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

func statusCacheKey(berthNumber int) string {
	return fmt.Sprintf("status:%d", berthNumber)
}

// DeriveStatus returns "Free" or "Occupied until <date>" for a berth as
// of the given instant.
func (d *AvailabilityDeriver) DeriveStatus(berthNumber int, asOf time.Time) (string, error) {
	if d.statusCache != nil {
		if status, ok := d.statusCache.Get(statusCacheKey(berthNumber)); ok {
			return status, nil
		}
	}

	reservations, err := d.reservations.ListByBerth(berthNumber)
	if err != nil {
		return "", fmt.Errorf("failed to derive status for berth %d: %w", berthNumber, err)
	}

	status := deriveStatus(reservations, asOf)

	if d.statusCache != nil {
		d.statusCache.Set(statusCacheKey(berthNumber), status, d.cacheTTL)
	}
	metrics.ObserveDerivation(status == StatusFree)

	return status, nil
}

// Invalidate drops the memoized label for a berth. Reservation writes
// call this so the next derivation sees fresh data.
func (d *AvailabilityDeriver) Invalidate(berthNumber int) {
	if d.statusCache != nil {
		d.statusCache.Delete(statusCacheKey(berthNumber))
	}
}

// deriveStatus picks the reservation with the maximum end date. Whether
// the winning reservation has started yet does not matter; only an
// end date already in the past frees the berth.
func deriveStatus(reservations []*domain.Reservation, asOf time.Time) string {
	var latest *domain.Reservation
	for _, res := range reservations {
		if latest == nil || res.EndDate.After(latest.EndDate) {
			latest = res
		}
	}

	if latest == nil || latest.EndDate.Before(asOf) {
		return StatusFree
	}
	return "Occupied until " + latest.EndDate.Format(occupiedDateFormat)
}
