package dbtest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakePoolReturnsQueuedRows(t *testing.T) {
	pool := NewFakePool()
	pool.ExpectQuery("SELECT").WillReturnRows(
		NewRowSet("id", "name").AddRow(int64(1), "Alice"))

	rows, err := pool.Query(context.Background(), "SELECT id, name FROM students", nil)
	require.NoError(t, err)
	defer rows.Close()

	fields := rows.FieldDescriptions()
	require.Len(t, fields, 2)
	assert.Equal(t, "id", fields[0].Name)
	assert.Equal(t, "name", fields[1].Name)

	require.True(t, rows.Next())
	values, err := rows.Values()
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), "Alice"}, values)

	assert.False(t, rows.Next())
	assert.NoError(t, rows.Err())
	assert.Equal(t, int64(1), rows.CommandTag().RowsAffected())
	assert.True(t, rows.CommandTag().Select())
}

func TestFakePoolReturnsTag(t *testing.T) {
	pool := NewFakePool()
	pool.ExpectQuery("UPDATE").WillReturnTag("UPDATE 3")

	rows, err := pool.Query(context.Background(), "UPDATE books SET quantity = $1", 5)
	require.NoError(t, err)
	rows.Close()

	assert.False(t, rows.CommandTag().Select())
	assert.Equal(t, int64(3), rows.CommandTag().RowsAffected())
}

func TestFakePoolReturnsError(t *testing.T) {
	wantErr := errors.New("boom")
	pool := NewFakePool()
	pool.ExpectQuery("SELECT").WillReturnError(wantErr)

	_, err := pool.Query(context.Background(), "SELECT 1")
	assert.Same(t, wantErr, err)
}

func TestFakePoolUnexpectedQuery(t *testing.T) {
	pool := NewFakePool()

	_, err := pool.Query(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected query")
}

func TestFakePoolPatternMismatch(t *testing.T) {
	pool := NewFakePool()
	pool.ExpectQuery("DELETE")

	_, err := pool.Query(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match expectation")
}

func TestFakePoolRecordsCalls(t *testing.T) {
	pool := NewFakePool()
	pool.ExpectQuery("SELECT").WillReturnRows(NewRowSet("id"))
	pool.ExpectQuery("SELECT").WillReturnRows(NewRowSet("id"))

	_, err := pool.Query(context.Background(), "SELECT id FROM books WHERE id = $1", 1)
	require.NoError(t, err)
	_, err = pool.Query(context.Background(), "SELECT id FROM books WHERE id = $1", 2)
	require.NoError(t, err)

	calls := pool.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, []any{1}, calls[0].Args)
	assert.Equal(t, []any{2}, calls[1].Args)
	assert.Zero(t, pool.Pending())
}

func TestRowSetAddRowPanicsOnArity(t *testing.T) {
	assert.Panics(t, func() {
		NewRowSet("id", "name").AddRow(1)
	})
}
