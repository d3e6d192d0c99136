package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gaborage/libris/logger"
)

// Querier is the subset of *pgxpool.Pool the executor depends on. It is
// deliberately narrow so tests can substitute a fake pool; see the dbtest
// package.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Executor translates legacy-style invocations, submits them to a shared
// connection pool and normalizes the results. Each call is a stateless
// request/response cycle; the pool bounds concurrency and owns connection
// lifecycle.
type Executor struct {
	pool     Querier
	logger   logger.Logger
	settings Settings
}

// NewExecutor creates an Executor on top of the given pool. The pool is
// injected explicitly rather than read from package state so tests can
// substitute a fake.
func NewExecutor(pool Querier, log logger.Logger, settings Settings) *Executor {
	return &Executor{
		pool:     pool,
		logger:   log,
		settings: settings,
	}
}

// Execute runs a statement written with '?' placeholders against the pool
// and returns the normalized result. Driver errors propagate unmodified: no
// retry, no error translation, no timeout at this layer. Callers wanting a
// deadline impose one through ctx.
func (e *Executor) Execute(ctx context.Context, query string, args ...any) (*Result, error) {
	translated, params, err := TranslateQuery(query, args)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	rows, err := e.pool.Query(ctx, translated, params...)
	if err != nil {
		e.track(ctx, translated, params, start, 0, err)
		return nil, err
	}

	columns, collected, err := collectRows(rows)
	if err != nil {
		e.track(ctx, translated, params, start, 0, err)
		return nil, err
	}

	result := normalizeResult(rows.CommandTag(), columns, collected)
	e.track(ctx, translated, params, start, result.Status.AffectedRows, nil)

	return result, nil
}

// collectRows drains and closes the row set, returning the column names and
// one map per row. The command tag only becomes available once the rows are
// closed, so this always runs to completion even for mutations.
func collectRows(rows pgx.Rows) ([]string, []map[string]any, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}

	var collected []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		collected = append(collected, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return columns, collected, nil
}
