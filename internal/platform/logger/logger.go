package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. Handlers and services log
// through this with request-scoped attributes.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
