// Package database implements the query compatibility executor: call sites
// written against a MySQL-style client contract (positional '?' placeholders,
// tuple-shaped results) execute unmodified against PostgreSQL through pgx.
//
// The package translates placeholder syntax, submits the statement to a
// shared connection pool, and normalizes the driver's result into a tagged
// read/mutation shape. Values are always passed through the driver's
// parameter binding, never interpolated into the statement text.
package database

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gaborage/libris/database/internal/sqllex"
)

// ErrParameterCount indicates that the number of '?' placeholders in a
// statement does not match the number of supplied parameters.
var ErrParameterCount = errors.New("parameter count mismatch")

// TranslateQuery rewrites MySQL-style '?' placeholders into pgx numbered
// parameters. The n-th placeholder (scanning left to right, skipping quoted
// regions and comments) becomes $n; the parameter list is returned unchanged
// so numbered references bind positionally to the same order.
//
// Statements with no parameters are returned untouched without scanning.
// A placeholder/parameter count mismatch fails fast with ErrParameterCount
// instead of surfacing later as an opaque driver error.
func TranslateQuery(query string, args []any) (string, []any, error) {
	if len(args) == 0 {
		return query, args, nil
	}

	translated, n := sqllex.RewritePositional(query, '?', func(n int) string {
		return "$" + strconv.Itoa(n)
	})
	if n != len(args) {
		return "", nil, fmt.Errorf("%w: statement has %d placeholders, got %d parameters",
			ErrParameterCount, n, len(args))
	}

	return translated, args, nil
}
