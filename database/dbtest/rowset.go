package dbtest

import (
	"fmt"
)

// RowSet represents a collection of rows for building fake query results.
// It provides a fluent API for test data:
//
//	rows := dbtest.NewRowSet("id", "name").
//	    AddRow(int64(1), "Alice").
//	    AddRow(int64(2), "Bob")
type RowSet struct {
	columns []string
	rows    [][]any
}

// NewRowSet creates a new RowSet with the specified column names.
func NewRowSet(columns ...string) *RowSet {
	return &RowSet{
		columns: columns,
		rows:    make([][]any, 0),
	}
}

// AddRow adds a single row of values to the RowSet. The number of values
// must match the number of columns; a mismatch panics since it is a defect
// in the test itself.
func (rs *RowSet) AddRow(values ...any) *RowSet {
	if len(values) != len(rs.columns) {
		panic(fmt.Sprintf("AddRow: expected %d values for columns %v, got %d",
			len(rs.columns), rs.columns, len(values)))
	}
	rs.rows = append(rs.rows, values)
	return rs
}
