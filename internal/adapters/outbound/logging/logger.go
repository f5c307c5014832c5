package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/abdidvp/hexagonal/internal/domain"
)

// LevelTrace sits below debug for very chatty output.
const LevelTrace = slog.LevelDebug - 4

// New builds the process logger from cfg. Every record carries service and env.
func New(cfg domain.AppConfig, w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch cfg.Log.Format {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	case "text", "":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}

	return slog.New(h).With(
		slog.String("service", cfg.Tracing.ServiceName),
		slog.String("env", string(cfg.Environment)),
	), nil
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
