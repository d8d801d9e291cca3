package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yourorg/harbormaster/internal/infrastructure/redis"
	"github.com/yourorg/harbormaster/internal/worker"
)

// AvailabilityStreamHandler pushes the berth status board to WebSocket
// clients as the background worker refreshes it.
type AvailabilityStreamHandler struct {
	redis          *redis.Client
	logger         *slog.Logger
	allowedOrigins []string
	interval       time.Duration
}

// NewAvailabilityStreamHandler creates a new availability stream handler
func NewAvailabilityStreamHandler(redisClient *redis.Client, logger *slog.Logger, allowedOrigins []string, interval time.Duration) *AvailabilityStreamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AvailabilityStreamHandler{
		redis:          redisClient,
		logger:         logger,
		allowedOrigins: allowedOrigins,
		interval:       interval,
	}
}

func (h *AvailabilityStreamHandler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Allow requests with no origin (non-browser clients)
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

// ServeHTTP handles GET /ws/availability
func (h *AvailabilityStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upgrader := h.getUpgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer ws.Close()

	ctx := r.Context()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	// Push the current board right away, then on every tick. Only
	// changed boards are re-sent.
	var last string
	for {
		board, err := h.redis.Get(ctx, worker.BoardKey)
		if err != nil {
			h.logger.Debug("status board unavailable", slog.String("error", err.Error()))
		} else if board != last {
			if err := ws.WriteMessage(websocket.TextMessage, []byte(board)); err != nil {
				h.logger.Debug("availability stream ended", slog.String("reason", err.Error()))
				return
			}
			last = board
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
