package config

import (
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotEnvOnce sync.Once

// parseEnv overlays GOPHID_* environment variables. Unset variables leave
// the current value untouched. A .env file in the working directory is
// loaded once first; it never overrides variables already set.
func parseEnv(config *Config) error {
	dotEnvOnce.Do(func() {
		_ = godotenv.Load()
	})
	return env.Parse(config)
}
