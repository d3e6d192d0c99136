package dbtest

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRows implements pgx.Rows over an in-memory RowSet.
type fakeRows struct {
	columns []string
	rows    [][]any
	idx     int
	tag     pgconn.CommandTag
	closed  bool
	err     error
}

var _ pgx.Rows = (*fakeRows)(nil)

func (r *fakeRows) Close() {
	r.closed = true
}

func (r *fakeRows) Err() error {
	return r.err
}

// CommandTag returns the configured tag. Like the real driver, the value is
// only meaningful once the rows have been drained or closed.
func (r *fakeRows) CommandTag() pgconn.CommandTag {
	return r.tag
}

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fields := make([]pgconn.FieldDescription, len(r.columns))
	for i, col := range r.columns {
		fields[i] = pgconn.FieldDescription{Name: col}
	}
	return fields
}

func (r *fakeRows) Next() bool {
	if r.closed || r.err != nil {
		return false
	}
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

// Scan copies the current row into dest. Only *any destinations are
// supported; executor code reads whole rows through Values instead.
func (r *fakeRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.rows) {
		return errors.New("dbtest: Scan called without Next")
	}
	row := r.rows[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("dbtest: Scan expected %d destinations, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		ptr, ok := d.(*any)
		if !ok {
			return fmt.Errorf("dbtest: Scan destination %d must be *any, got %T", i, d)
		}
		*ptr = row[i]
	}
	return nil
}

func (r *fakeRows) Values() ([]any, error) {
	if r.idx == 0 || r.idx > len(r.rows) {
		return nil, errors.New("dbtest: Values called without Next")
	}
	row := r.rows[r.idx-1]
	out := make([]any, len(row))
	copy(out, row)
	return out, nil
}

func (r *fakeRows) RawValues() [][]byte {
	return nil
}

func (r *fakeRows) Conn() *pgx.Conn {
	return nil
}
