package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// envFiles are loaded in order; earlier files win because existing
// variables are never overwritten.
var envFiles = []string{".env.local", ".env"}

func loadEnvFiles() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load environment file", logfields.Path(name), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment file", logfields.Path(name))
	}
}
