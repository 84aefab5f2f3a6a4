package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Logger *slog.Logger
}

func newBaseService(logger *slog.Logger) BaseService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return BaseService{Logger: logger}
}

// GetLogger prefers the request-scoped logger carried by ctx and falls back
// to the logger the service was constructed with.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	if logger := middleware.GetLoggerFromCtx(ctx); logger != nil {
		return logger
	}
	return s.Logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

func tenantAttr(tenantID *string) slog.Attr {
	if tenantID == nil {
		return slog.String("tenant_id", "")
	}
	return slog.String("tenant_id", *tenantID)
}
