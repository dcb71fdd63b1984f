// Package logging builds the process logger from configuration.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/p-n-ai/b1-trainer/internal/platform/config"
)

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// New returns a logger writing to w. The "text" format uses a colored
// human-readable handler for local runs; anything else writes JSON lines.
func New(w io.Writer, cfg config.LogConfig) *slog.Logger {
	level := ParseLevel(cfg.Level)

	var h slog.Handler
	if cfg.Format == "text" {
		h = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
		})
	} else {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return slog.New(h)
}
