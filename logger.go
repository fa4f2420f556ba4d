package rhythmgo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with rhythmgo-specific context.
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

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
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

// WithSpec adds the measure spec field to the logger.
func (l *Logger) WithSpec(spec string) *Logger {
	return &Logger{
		Logger: l.Logger.With("spec", spec),
	}
}

// WithSession adds a session name field to the logger.
func (l *Logger) WithSession(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("session", name),
	}
}

// LogGenerate logs the enumerate-and-score step.
func (l *Logger) LogGenerate(ctx context.Context, spec string, count uint64, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "generate failed",
			"spec", spec,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "generate completed",
			"spec", spec,
			"vectors", count,
			"elapsed", elapsed,
		)
	}
}

// LogFilter logs a filter application.
func (l *Logger) LogFilter(ctx context.Context, name string, kept, total int) {
	l.DebugContext(ctx, "filter applied",
		"filter", name,
		"kept", kept,
		"total", total,
	)
}

// LogSession logs a session save or load.
func (l *Logger) LogSession(ctx context.Context, op, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "session "+op+" failed",
			"session", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "session "+op+" completed",
			"session", name,
		)
	}
}

// LogSnapshot logs a snapshot write or read.
func (l *Logger) LogSnapshot(ctx context.Context, op, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot "+op+" failed",
			"snapshot", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot "+op+" completed",
			"snapshot", name,
		)
	}
}
