package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/yourorg/harbormaster/internal/domain"
	"github.com/yourorg/harbormaster/internal/infrastructure/redis"
	"github.com/yourorg/harbormaster/internal/observability/metrics"
	"github.com/yourorg/harbormaster/internal/service"
)

// BoardKey is the redis key holding the serialized status board
const BoardKey = "availability:board"

// StatusWorker periodically derives the availability of every berth and
// publishes the resulting status board to redis. The board feeds the
// websocket stream and keeps the occupied-berth gauge current.
type StatusWorker struct {
	berths   domain.BerthRepository
	deriver  *service.AvailabilityDeriver
	redis    *redis.Client
	logger   *slog.Logger
	interval time.Duration
}

// NewStatusWorker creates a new status worker
func NewStatusWorker(
	berths domain.BerthRepository,
	deriver *service.AvailabilityDeriver,
	redisClient *redis.Client,
	logger *slog.Logger,
	interval time.Duration,
) *StatusWorker {
	return &StatusWorker{
		berths:   berths,
		deriver:  deriver,
		redis:    redisClient,
		logger:   logger,
		interval: interval,
	}
}

// Start begins the refresh loop. It publishes once immediately so the
// board exists before the first tick.
func (w *StatusWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("status worker started", slog.Duration("interval", w.interval))
	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("status worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

// refresh recomputes and publishes the full status board
func (w *StatusWorker) refresh(ctx context.Context) {
	berths, err := w.berths.List()
	if err != nil {
		w.logger.Error("failed to list berths", slog.String("error", err.Error()))
		return
	}

	now := time.Now()
	occupied := 0
	board := make([]domain.BerthStatus, 0, len(berths))
	for _, b := range berths {
		status, err := w.deriver.DeriveStatus(b.Number, now)
		if err != nil {
			w.logger.Error("failed to derive status",
				slog.Int("number", b.Number),
				slog.String("error", err.Error()),
			)
			return
		}
		if status != service.StatusFree {
			occupied++
		}
		board = append(board, domain.BerthStatus{Berth: *b, Status: status})
	}

	metrics.SetOccupied(occupied)

	data, err := json.Marshal(board)
	if err != nil {
		w.logger.Error("failed to marshal status board", slog.String("error", err.Error()))
		return
	}

	// Keep the board slightly longer than two refresh cycles so readers
	// see a stale board rather than none if a refresh is missed.
	if err := w.redis.Set(ctx, BoardKey, string(data), 2*w.interval+time.Second); err != nil {
		w.logger.Error("failed to publish status board", slog.String("error", err.Error()))
		return
	}

	w.logger.Debug("status board published",
		slog.Int("berths", len(board)),
		slog.Int("occupied", occupied),
	)
}
