// Package logging builds the slog loggers used by glasspane: a size-rotated
// file for the interactive UI, stderr for one-shot commands.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/1broseidon/glasspane/internal/config"
)

// ParseLevel converts a level name to a slog level. Unknown names are info.
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

// New returns a text logger writing to w at level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Stderr returns a logger for one-shot commands.
func Stderr(level string) *slog.Logger {
	return New(os.Stderr, ParseLevel(level))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// OpenFile returns a logger writing to the rotating file described by cfg.
// levelOverride, when non-empty, replaces cfg.Level. The returned closer
// must be closed on exit; with logging disabled the logger discards and
// the closer is a no-op.
func OpenFile(cfg config.LoggingConfig, levelOverride string) (*slog.Logger, io.Closer, error) {
	if cfg.Disabled {
		return Discard(), io.NopCloser(nil), nil
	}
	level := cfg.Level
	if levelOverride != "" {
		level = levelOverride
	}

	w, err := NewRotatingFile(cfg.File, cfg.MaxSizeMB, cfg.MaxFiles)
	if err != nil {
		return Discard(), io.NopCloser(nil), fmt.Errorf("open log file: %w", err)
	}
	return New(w, ParseLevel(level)), w, nil
}
