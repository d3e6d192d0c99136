package database

import (
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeResultReadWithRows(t *testing.T) {
	rows := []map[string]any{
		{"id": int64(1), "name": "a"},
		{"id": int64(2), "name": "b"},
	}

	result := normalizeResult(pgconn.NewCommandTag("SELECT 2"), []string{"id", "name"}, rows)
	require.True(t, result.IsRead())
	assert.Equal(t, rows, result.Rows)
	assert.Equal(t, []string{"id", "name"}, result.Columns)
}

func TestNormalizeResultReadEmpty(t *testing.T) {
	result := normalizeResult(pgconn.NewCommandTag("SELECT 0"), []string{"id"}, nil)
	require.True(t, result.IsRead())
	assert.NotNil(t, result.Rows, "empty reads must yield an empty slice, not nil")
	assert.Empty(t, result.Rows)
}

func TestNormalizeResultReturningClauseIsRead(t *testing.T) {
	// INSERT ... RETURNING reports an INSERT tag but carries fields; the
	// presence of a row set wins over the tag.
	rows := []map[string]any{{"id": int64(42)}}

	result := normalizeResult(pgconn.NewCommandTag("INSERT 0 1"), []string{"id"}, rows)
	require.True(t, result.IsRead())
	assert.Equal(t, rows, result.Rows)
}

func TestNormalizeResultMutation(t *testing.T) {
	tests := []struct {
		name         string
		tag          string
		wantAffected int64
	}{
		{
			name:         "update_three_rows",
			tag:          "UPDATE 3",
			wantAffected: 3,
		},
		{
			name:         "insert_one_row",
			tag:          "INSERT 0 1",
			wantAffected: 1,
		},
		{
			name:         "delete_none",
			tag:          "DELETE 0",
			wantAffected: 0,
		},
		{
			name:         "ddl_reports_zero",
			tag:          "CREATE TABLE",
			wantAffected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := normalizeResult(pgconn.NewCommandTag(tt.tag), nil, nil)
			require.False(t, result.IsRead())
			assert.Equal(t, tt.wantAffected, result.Status.AffectedRows)
			assert.Nil(t, result.Status.InsertID)
		})
	}
}

func TestExecStatusJSONFieldNames(t *testing.T) {
	// The JSON field names are part of the compatibility contract.
	data, err := json.Marshal(ExecStatus{AffectedRows: 3, InsertID: nil})
	require.NoError(t, err)
	assert.JSONEq(t, `{"affectedRows":3,"insertId":null}`, string(data))
}
