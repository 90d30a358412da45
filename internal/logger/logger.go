// Package logger sets up the process-wide slog default. DEBUG=true switches
// the handler to debug level so scrape and translation fallbacks show up.
package logger

import (
	"log/slog"
	"os"
)

func Init() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
