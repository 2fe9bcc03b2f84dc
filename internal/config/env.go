package config

import (
	"os"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	loadFromEnvHelper(cfg, nil, "")
}

// loadFromEnvWithSources loads environment variables and updates source tracking.
func loadFromEnvWithSources(cfg *Config, sources map[string]ConfigSource) {
	loadFromEnvHelper(cfg, sources, SourceEnv)
}

// loadFromEnvHelper is the shared implementation for env loading.
// If sources is non-nil, it tracks the source of each value.
// Unparseable values are ignored.
func loadFromEnvHelper(cfg *Config, sources map[string]ConfigSource, source ConfigSource) {
	for _, s := range settings() {
		v := os.Getenv(s.env)
		if v == "" {
			continue
		}
		if err := setValue(s.field(cfg), v); err != nil {
			continue
		}
		if sources != nil {
			sources[s.key] = source
		}
	}
}
