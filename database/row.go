package database

import (
	"time"
)

// Row accessors for the map-shaped rows the executor returns. pgx decodes
// PostgreSQL bigints as int64, integers as int32 and timestamptz as
// time.Time; these helpers absorb the numeric width differences so callers
// don't repeat type switches.

// RowInt64 returns the named column as int64, or 0 when absent or null.
func RowInt64(row map[string]any, column string) int64 {
	switch v := row[column].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	default:
		return 0
	}
}

// RowInt returns the named column as int, or 0 when absent or null.
func RowInt(row map[string]any, column string) int {
	return int(RowInt64(row, column))
}

// RowString returns the named column as string, or "" when absent or null.
func RowString(row map[string]any, column string) string {
	if v, ok := row[column].(string); ok {
		return v
	}
	return ""
}

// RowTime returns the named column as time.Time, or the zero time when
// absent or null.
func RowTime(row map[string]any, column string) time.Time {
	if v, ok := row[column].(time.Time); ok {
		return v
	}
	return time.Time{}
}

// RowTimePtr returns the named column as *time.Time, or nil when absent or
// null. Used for nullable timestamp columns.
func RowTimePtr(row map[string]any, column string) *time.Time {
	if v, ok := row[column].(time.Time); ok {
		return &v
	}
	return nil
}
