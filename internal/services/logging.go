package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, service string) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", service),
	}
}

// LogOperation records the outcome of a mutating operation. Expected failures
// (validation, not found, conflicts) are logged below error level.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, userID, resourceType, resourceID string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err):
			level, status = slog.LevelWarn, "validation_error"
		case IsBusinessRule(err):
			level, status = slog.LevelWarn, "business_rule"
		case IsConflict(err):
			level, status = slog.LevelWarn, "conflict"
		case IsUnauthorized(err):
			level, status = slog.LevelWarn, "unauthorized"
		case IsNotFound(err):
			level, status = slog.LevelInfo, "not_found"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("user_id", userID),
		slog.String("resource_type", resourceType),
		slog.String("resource_id", resourceID),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		if validationErr, ok := err.(ValidationErrors); ok {
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		} else if businessErr, ok := err.(*BusinessRuleError); ok {
			attrs = append(attrs, slog.String("business_rule", businessErr.Rule))
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

// Track returns a func that logs the operation when called with its final error
func (l *ServiceLogger) Track(ctx context.Context, operation, userID, resourceType, resourceID string) func(err error) {
	start := time.Now()
	return func(err error) {
		l.LogOperation(ctx, operation, userID, resourceType, resourceID, time.Since(start), err)
	}
}
