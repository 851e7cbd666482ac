package library

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds a slog.Logger writing to both the given log file and
// stderr. When the file cannot be opened the logger falls back to stderr
// only; an unwritable log file should not block the desk.
func NewLogger(logFile string) *slog.Logger {
	var w io.Writer = os.Stderr
	if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
		w = io.MultiWriter(f, os.Stderr)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
