package config

import (
	"log/slog"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	// A missing .env is fine; variables can come from the environment.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
		return
	}
	slog.Debug("environment variables loaded from .env")
}
