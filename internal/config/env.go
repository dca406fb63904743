package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvAIAPIKey      = "RERANGE_AI_API_KEY"
	EnvSessionSecret = "RERANGE_SESSION_SECRET"
	EnvStorageKey    = "RERANGE_STORAGE_KEY"
)

// dotenvFile is the file loaded into the environment before reading it.
var dotenvFile = ".env"

// parseEnv loads dotenvFile, if it exists, and overlays the secrets found in
// the environment. Variables already set in the process environment win over
// the file.
func parseEnv(cfg *Config) {
	if _, err := os.Stat(dotenvFile); err == nil {
		if err := godotenv.Load(dotenvFile); err != nil {
			panic(err)
		}
	}

	if v := os.Getenv(EnvAIAPIKey); v != "" {
		cfg.AIAPIKey = v
	}
	if v := os.Getenv(EnvSessionSecret); v != "" {
		cfg.SessionSecret = v
	}
	if v := os.Getenv(EnvStorageKey); v != "" {
		cfg.StorageKey = v
	}
}
