package dictcache

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with dictionary-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithDictionary adds the dictionary name to the logger.
func (l *Logger) WithDictionary(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("dictionary", name),
	}
}

// LogLookup logs a vectorized lookup.
func (l *Logger) LogLookup(ctx context.Context, attribute string, n, misses int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "lookup failed",
			"attribute", attribute,
			"keys", n,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "lookup completed",
		"attribute", attribute,
		"keys", n,
		"misses", misses,
		"duration", duration,
	)
}
