// cmd/jankmon/logger.go
package main

import (
	"io"
	"log/slog"

	"github.com/tamzrod/jank-monitor/internal/config"
)

// NewLogger returns a structured slog.Logger for the configured level and format.
// Unknown values fall back to info / json.
func NewLogger(lc config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(lc.Level)}

	var h slog.Handler
	if lc.Format == "text" {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h)
}

func parseLevel(s string) slog.Level {
	switch s {
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
