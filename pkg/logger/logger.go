package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// New returns the process logger.
// local and dev get colored human-readable output on stderr; every other env gets JSON on stdout.
func New(appEnv, level string) *slog.Logger {
	if appEnv == "local" || appEnv == "dev" {
		return newHandlerLogger(os.Stderr, appEnv, ParseLevel(level, slog.LevelDebug))
	}
	return newHandlerLogger(os.Stdout, appEnv, ParseLevel(level, slog.LevelInfo))
}

func newHandlerLogger(w io.Writer, appEnv string, level slog.Level) *slog.Logger {
	if appEnv == "local" || appEnv == "dev" {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a LOG_LEVEL value to a slog level, returning fallback for empty or unknown input.
func ParseLevel(v string, fallback slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}

type ctxKey struct{}

// With stores a logger in context.
func With(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From gets a logger from context, falling back to slog.Default().
func From(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.Default()
}
