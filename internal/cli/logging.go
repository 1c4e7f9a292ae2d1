package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"arith-quiz-service/internal/config"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// loadDotEnv loads .env from the working directory when present.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env file")
	}
}

// setupLogging configures the global zerolog logger. The flag wins over the config file, which
// wins over fallback.
func setupLogging(cfg config.Config, levelFlag, fallback string, console bool) error {
	if console || cfg.Log.Console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	raw := levelFlag
	if raw == "" {
		raw = cfg.Log.Level
	}
	if raw == "" {
		raw = fallback
	}
	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", raw, err)
	}
	zerolog.SetGlobalLevel(level)
	return nil
}
