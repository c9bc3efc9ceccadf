package config

import (
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
	"git.home.luguber.info/inful/knowledgelib/internal/logfields"
)

// envFiles are tried in order; every file present is loaded.
// Existing process variables are never overwritten.
var envFiles = []string{".env", ".env.local"}

func loadEnvFile() error {
	for _, name := range envFiles {
		if _, err := os.Stat(name); stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "load environment file").WithContext("path", name).Build()
		}
		slog.Debug("Loaded environment variables", logfields.File(name))
	}
	return nil
}
