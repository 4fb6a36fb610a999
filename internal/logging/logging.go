// Package logging builds the slog logger used by event handlers.
//
// Handlers receive a logger explicitly; there is no package-level default.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/quietdesk/ainotify/internal/config"
	"github.com/rotisserie/eris"
)

// New opens the configured log file for appending and returns a text logger
// writing to it.
func New(cfg config.Logging) (*slog.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, eris.Wrapf(err, "failed to create log directory for: %s", cfg.Path)
	}

	file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open log file: %s", cfg.Path)
	}

	handler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: parseLevel(cfg.Level)})
	return slog.New(handler), nil
}

// NewNop returns a logger that discards everything. Used in tests and as a
// fallback when the log file cannot be opened: a broken log destination must
// never fail an event handler.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
