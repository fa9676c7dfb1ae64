// Package logger builds the process-wide structured logger. Services receive
// it through constructor options; nothing logs through a package-level default.
package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON logger writing to stdout at the given minimum level.
// Every record carries the service name so aggregated streams stay attributable.
func New(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("service", "walletgate")
}
