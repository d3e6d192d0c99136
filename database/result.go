package database

import (
	"github.com/jackc/pgx/v5/pgconn"
)

// StatementKind classifies an executed statement by the shape of its result.
type StatementKind int

const (
	// StatementRead covers statements that produce a row set, including
	// mutations with a RETURNING clause.
	StatementRead StatementKind = iota
	// StatementMutation covers inserts, updates, deletes and DDL that
	// report only an affected-row count.
	StatementMutation
)

// ExecStatus mirrors the legacy driver's mutation status object. Field names
// are part of the compatibility contract and must not change.
type ExecStatus struct {
	AffectedRows int64 `json:"affectedRows"`
	InsertID     any   `json:"insertId"`
}

// Result is the normalized outcome of an executed statement. Exactly one of
// the two shapes is meaningful, selected by Kind: Rows and Columns for reads,
// Status for mutations.
type Result struct {
	Kind    StatementKind
	Rows    []map[string]any
	Columns []string
	Status  ExecStatus
}

// IsRead reports whether the result carries a row set.
func (r *Result) IsRead() bool {
	return r.Kind == StatementRead
}

// normalizeResult maps the driver's native result parts onto the legacy
// tuple convention. A statement is classified as a read when the command tag
// is SELECT or when the result carries a field list (e.g. RETURNING).
// Mutations report the affected-row count (0 when the driver reports none)
// and a null insert id: PostgreSQL does not surface generated identifiers
// through this path, callers needing one use a RETURNING clause instead.
func normalizeResult(tag pgconn.CommandTag, columns []string, rows []map[string]any) *Result {
	if tag.Select() || len(columns) > 0 {
		if rows == nil {
			rows = []map[string]any{}
		}
		return &Result{
			Kind:    StatementRead,
			Rows:    rows,
			Columns: columns,
		}
	}

	return &Result{
		Kind: StatementMutation,
		Status: ExecStatus{
			AffectedRows: tag.RowsAffected(),
			InsertID:     nil,
		},
	}
}
