package logging

import (
	"log/slog"
	"os"
)

// Init configures the default slog logger. The default level is warn so
// normal runs only show progress output; verbose enables debug logging.
func Init(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
