package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger for test wiring. Every service takes a logger,
// so tests hand them one that goes nowhere.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
