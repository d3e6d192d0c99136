package database

import (
	"context"
	"fmt"
	"time"

	"github.com/gaborage/libris/config"
)

const (
	// DefaultSlowQueryThreshold defines the default threshold for slow query detection
	DefaultSlowQueryThreshold = 200 * time.Millisecond
	// DefaultMaxQueryLength defines the default maximum query length for logging
	DefaultMaxQueryLength = 1000
)

// Settings holds configuration for query tracking and logging.
type Settings struct {
	slowQueryThreshold time.Duration
	maxQueryLength     int
	logQueryParameters bool
}

// NewSettings creates Settings populated from the provided database
// configuration. Non-positive numeric fields fall back to the package
// defaults; a nil cfg yields defaults throughout.
func NewSettings(cfg *config.DatabaseConfig) Settings {
	settings := Settings{
		slowQueryThreshold: DefaultSlowQueryThreshold,
		maxQueryLength:     DefaultMaxQueryLength,
		logQueryParameters: false,
	}

	if cfg == nil {
		return settings
	}

	if cfg.Query.Slow.Threshold > 0 {
		settings.slowQueryThreshold = cfg.Query.Slow.Threshold
	}
	if cfg.Query.Log.MaxLength > 0 {
		settings.maxQueryLength = cfg.Query.Log.MaxLength
	}
	settings.logQueryParameters = cfg.Query.Log.Parameters

	return settings
}

// SlowQueryThreshold returns the threshold for slow query detection
func (s Settings) SlowQueryThreshold() time.Duration {
	return s.slowQueryThreshold
}

// MaxQueryLength returns the maximum query length for logging
func (s Settings) MaxQueryLength() int {
	return s.maxQueryLength
}

// LogQueryParameters returns whether query parameters should be logged
func (s Settings) LogQueryParameters() bool {
	return s.logQueryParameters
}

// track emits a log event for a completed database operation. Errors are
// logged but never altered or swallowed here; the caller still returns them
// to its caller untouched. Operations slower than the configured threshold
// are logged at WARN.
func (e *Executor) track(ctx context.Context, query string, args []any, start time.Time, rowsAffected int64, err error) {
	if e.logger == nil {
		return
	}

	elapsed := time.Since(start)

	truncated := query
	if e.settings.MaxQueryLength() > 0 && len(query) > e.settings.MaxQueryLength() {
		truncated = truncateString(query, e.settings.MaxQueryLength())
	}

	logEvent := e.logger.WithContext(ctx).WithFields(map[string]any{
		"duration_ms": elapsed.Milliseconds(),
		"query":       truncated,
	})

	if e.settings.LogQueryParameters() && len(args) > 0 {
		logEvent = logEvent.WithFields(map[string]any{
			"args": sanitizeArgs(args, e.settings.MaxQueryLength()),
		})
	}

	switch {
	case err != nil:
		logEvent.Error().Err(err).Msg("Database operation error")
	case elapsed > e.settings.SlowQueryThreshold():
		logEvent.Warn().Int64("rows_affected", rowsAffected).Msgf("Slow database operation detected (%s)", elapsed)
	default:
		logEvent.Debug().Int64("rows_affected", rowsAffected).Msg("Database operation executed")
	}
}

// truncateString clamps s to max bytes, marking the cut.
func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// sanitizeArgs renders parameters for logging, clamping each value so a
// single large parameter cannot blow up the log entry.
func sanitizeArgs(args []any, maxLength int) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		rendered := fmt.Sprintf("%v", arg)
		if maxLength > 0 && len(rendered) > maxLength {
			rendered = truncateString(rendered, maxLength)
		}
		out[i] = rendered
	}
	return out
}
