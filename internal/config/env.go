package config

import (
	"log/slog"

	"github.com/joho/godotenv"
)

// loadEnvFile loads the first of .env/.env.local that exists. Variables already
// present in the process environment are not overwritten.
func loadEnvFile() {
	for _, envPath := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envPath); err == nil {
			slog.Debug("Loaded environment variables", slog.String("path", envPath))
			return
		}
	}
}
