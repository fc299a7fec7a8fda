// Package logx builds the process logger and carries request-scoped loggers
// through contexts.
package logx

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Service string
	Env     string // e.g. "development", "production"
	Level   string // debug, info, warn, error
	Format  string // json or text
}

type ctxKey struct{}

// New returns a configured logger writing to stdout and installs it as the
// slog default.
func New(cfg Config) *slog.Logger {
	logger := NewWithWriter(os.Stdout, cfg)
	slog.SetDefault(logger)
	return logger
}

// NewWithWriter is New without the global side effect.
func NewWithWriter(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: cfg.Env == "development",
		Level:     parseLevel(cfg.Level),
	}
	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		h = slog.NewTextHandler(w, opts)
	default:
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("service", cfg.Service, "env", cfg.Env)
}

// WithContext stores logger in ctx.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
