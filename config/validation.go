package config

import (
	"fmt"
	"slices"
	"strings"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Validate checks the configuration for missing or inconsistent settings.
// It returns an error describing the first failed validation, or nil if valid.
func Validate(cfg *Config) error {
	if err := validateApp(&cfg.App); err != nil {
		return fmt.Errorf("app config: %w", err)
	}

	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validateDatabase(&cfg.Database); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	if err := validateLog(&cfg.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	return nil
}

func validateApp(cfg *AppConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("app name is required")
	}

	if cfg.Version == "" {
		return fmt.Errorf("app version is required")
	}

	validEnvs := []string{EnvDevelopment, EnvStaging, EnvProduction}
	if !slices.Contains(validEnvs, cfg.Env) {
		return fmt.Errorf("invalid environment: %s (must be one of: %s)",
			cfg.Env, strings.Join(validEnvs, ", "))
	}

	if cfg.Rate.Limit <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}

	return nil
}

func validateServer(cfg *ServerConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", cfg.Port)
	}

	if cfg.Timeout.Read <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}

	if cfg.Timeout.Write <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}

	if cfg.Timeout.Shutdown <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	return nil
}

// validateDatabase requires either a full connection string or enough
// individual fields to assemble one. The service must fail at startup rather
// than at first query when the database is unreachable or unconfigured.
func validateDatabase(cfg *DatabaseConfig) error {
	if cfg.ConnectionString != "" {
		return nil
	}

	if cfg.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid database port: %d (must be 1-65535)", cfg.Port)
	}

	if cfg.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if cfg.Username == "" {
		return fmt.Errorf("database username is required")
	}

	if cfg.Pool.Max.Connections <= 0 {
		return fmt.Errorf("max pool connections must be positive")
	}

	if cfg.Pool.Min.Connections < 0 || cfg.Pool.Min.Connections > cfg.Pool.Max.Connections {
		return fmt.Errorf("min pool connections must be between 0 and max pool connections")
	}

	return nil
}

func validateLog(cfg *LogConfig) error {
	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}
	if !slices.Contains(validLevels, cfg.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)",
			cfg.Level, strings.Join(validLevels, ", "))
	}

	return nil
}
