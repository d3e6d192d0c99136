// Package config loads and validates service configuration from defaults,
// YAML files, and environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. YAML configuration file
// 3. Default values (lowest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Load from YAML file (if exists). The file is optional; only the
	// environment is required to bring up a working service.
	if err := k.Load(file.Provider("config.yaml"), yaml.Parser()); err != nil {
		fmt.Printf("Warning: could not load config.yaml: %v\n", err)
	}

	// Load environment variables (highest priority)
	if err := k.Load(envprovider.Provider(".", envprovider.Opt{
		TransformFunc: func(key, value string) (string, any) {
			// Convert UPPER_CASE to lower.case for koanf
			return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return unmarshal(k)
}

// unmarshal decodes the koanf tree into a Config and validates it.
func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":       "libris",
		"app.version":    "v1.0.0",
		"app.env":        EnvDevelopment,
		"app.debug":      false,
		"app.rate.limit": 100,

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.timeout.read":     "15s",
		"server.timeout.write":    "30s",
		"server.timeout.shutdown": "10s",
		"server.path.base":        "",

		// Database host/credentials are deliberately not defaulted; the
		// service refuses to start without explicit database settings.
		"database.port":                  5432,
		"database.ssl.mode":              "disable",
		"database.pool.max.connections":  10,
		"database.pool.min.connections":  2,
		"database.pool.lifetime.max":     "30m",
		"database.pool.idle.time":        "5m",
		"database.query.slow.threshold":  "200ms",
		"database.query.log.maxlength":   1000,
		"database.query.log.parameters":  false,

		"log.level":  "info",
		"log.pretty": false,

		// Event publishing stays disabled until a broker URL is provided.
		"messaging.exchange": "libris.events",
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
