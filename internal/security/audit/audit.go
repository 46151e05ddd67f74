package audit

import (
	"context"
	"log/slog"
)

// Logger emits one structured record per mutating operation, tagged with
// the acting identity and tenant.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger}
}

func (al *Logger) LogAction(ctx context.Context, tenantID string, userID int64, action, resource string, resourceID int64, status string) {
	al.logger.InfoContext(ctx, "audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.Int64("resource_id", resourceID),
		slog.String("tenant_id", tenantID),
		slog.Int64("user_id", userID),
		slog.String("status", status),
	)
}

func (al *Logger) LogRegistration(ctx context.Context, tenantID string, userID int64) {
	al.LogAction(ctx, tenantID, userID, "register", "user", userID, "created")
}
