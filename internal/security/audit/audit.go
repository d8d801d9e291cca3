package audit

import (
	"context"
	"log/slog"
	"time"
)

// Logger records security-relevant actions on marina resources
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a new audit logger
func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

// LogAction writes one audit entry
func (al *Logger) LogAction(ctx context.Context, userEmail, action, resource, resourceID, status string) {
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("user_email", userEmail),
		slog.String("status", status),
		slog.Time("timestamp", time.Now()),
	)
}

// LogMutation records a create/update/delete on a marina resource
func (al *Logger) LogMutation(ctx context.Context, userEmail, method, resource, resourceID string) {
	al.LogAction(ctx, userEmail, method, resource, resourceID, "initiated")
}

// LogDenied records a rejected access attempt
func (al *Logger) LogDenied(ctx context.Context, userEmail, reason string) {
	al.LogAction(ctx, userEmail, "access_denied", "api", "", reason)
}
