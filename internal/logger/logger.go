// Package logger configures the process-wide slog logger and provides
// context-aware helpers. Logging is instrumentation only; it never affects
// analysis outcomes.
package logger

import (
	"context"
	"log/slog"
	"os"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// BatchIDKey is the context key for the analysis batch ID.
	BatchIDKey ContextKey = "batch_id"
	// FileNameKey is the context key for the document being processed.
	FileNameKey ContextKey = "file_name"
)

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// Init initializes the global slog logger with the given configuration.
func Init(cfg Config) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// WithContext returns a logger annotated with batch and document identifiers
// found in the context.
func WithContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if batchID, ok := ctx.Value(BatchIDKey).(string); ok && batchID != "" {
		logger = logger.With("batch_id", batchID)
	}
	if fileName, ok := ctx.Value(FileNameKey).(string); ok && fileName != "" {
		logger = logger.With("file_name", fileName)
	}

	return logger
}

func Debug(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Debug(msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Info(msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Warn(msg, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Error(msg, args...)
}
