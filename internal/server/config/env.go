package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config fields from CORE_-prefixed environment
// variables (e.g. CORE_DATABASE_DSN). Unset variables leave the
// current values untouched.
func parseEnv(config *Config) {
	if err := env.ParseWithOptions(config, env.Options{Prefix: "CORE_"}); err != nil {
		panic(err)
	}
}
