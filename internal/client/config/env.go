package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every variable name in Config's env tags.
const EnvPrefix = "COMPAREHUB_"

const dotEnvFile = ".env"

// loadDotEnv copies variables from path into the process environment. A
// missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// parseEnv overlays cfg with COMPAREHUB_* variables. Unset variables leave
// the current value alone.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse env: %w", err)
	}
	return nil
}
