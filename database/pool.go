package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gaborage/libris/config"
	"github.com/gaborage/libris/logger"
)

var (
	openPool = func(ctx context.Context, cfg *pgxpool.Config) (*pgxpool.Pool, error) {
		return pgxpool.NewWithConfig(ctx, cfg)
	}
	pingPool = func(ctx context.Context, pool *pgxpool.Pool) error {
		return pool.Ping(ctx)
	}
	closePool = func(pool *pgxpool.Pool) {
		pool.Close()
	}
)

// quoteDSN quotes a DSN value according to libpq rules:
// - Returns double single quotes for empty strings (empty value)
// - Escapes backslashes and single quotes
// - Wraps in single quotes when value contains non-alphanumeric/._- characters
func quoteDSN(value string) string {
	if value == "" {
		return "''"
	}

	needsQuoting := false
	for _, r := range value {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') &&
			(r < '0' || r > '9') && r != '.' && r != '_' && r != '-' {
			needsQuoting = true
			break
		}
	}

	if !needsQuoting {
		return value
	}

	escaped := strings.ReplaceAll(value, "\\", "\\\\")
	escaped = strings.ReplaceAll(escaped, "'", "\\'")

	return "'" + escaped + "'"
}

// buildDSN assembles a keyword/value DSN from the individual config fields
// unless an explicit connection string overrides them.
func buildDSN(cfg *config.DatabaseConfig) string {
	if cfg.ConnectionString != "" {
		return cfg.ConnectionString
	}

	parts := []string{
		fmt.Sprintf("host=%s", quoteDSN(cfg.Host)),
		fmt.Sprintf("port=%d", cfg.Port),
		fmt.Sprintf("user=%s", quoteDSN(cfg.Username)),
		fmt.Sprintf("password=%s", quoteDSN(cfg.Password)),
		fmt.Sprintf("dbname=%s", quoteDSN(cfg.Database)),
	}

	if cfg.SSL.Mode != "" {
		parts = append(parts, fmt.Sprintf("sslmode=%s", cfg.SSL.Mode))
	}

	return strings.Join(parts, " ")
}

// NewPool creates the process-wide PostgreSQL connection pool. The pool
// bounds the number of concurrent in-flight statements; excess callers wait
// until a connection frees. Construction fails fast: the database is pinged
// before the pool is handed out.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL config: %w", err)
	}

	if cfg.Pool.Max.Connections > 0 {
		poolConfig.MaxConns = cfg.Pool.Max.Connections
	}
	if cfg.Pool.Min.Connections > 0 {
		poolConfig.MinConns = cfg.Pool.Min.Connections
	}
	if cfg.Pool.Lifetime.Max > 0 {
		poolConfig.MaxConnLifetime = cfg.Pool.Lifetime.Max
	}
	if cfg.Pool.Idle.Time > 0 {
		poolConfig.MaxConnIdleTime = cfg.Pool.Idle.Time
	}

	pool, err := openPool(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := pingPool(pingCtx, pool); err != nil {
		closePool(pool)
		return nil, fmt.Errorf("failed to ping PostgreSQL database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("Connected to PostgreSQL database")

	return pool, nil
}
