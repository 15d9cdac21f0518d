package logging

import (
	"log/slog"
	"os"
)

// Setup installs a JSON logger on stdout as the process default. The
// Postgres sink is attached later in main, once the database is up.
func Setup() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}
