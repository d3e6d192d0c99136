package database

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestRowInt64Widths(t *testing.T) {
	row := map[string]any{
		"bigint":  int64(9000000000),
		"integer": int32(42),
		"plain":   7,
		"null":    nil,
		"text":    "oops",
	}

	assert.Equal(t, int64(9000000000), RowInt64(row, "bigint"))
	assert.Equal(t, int64(42), RowInt64(row, "integer"))
	assert.Equal(t, int64(7), RowInt64(row, "plain"))
	assert.Equal(t, int64(0), RowInt64(row, "null"))
	assert.Equal(t, int64(0), RowInt64(row, "text"))
	assert.Equal(t, int64(0), RowInt64(row, "missing"))

	assert.Equal(t, 42, RowInt(row, "integer"))
}

func TestRowString(t *testing.T) {
	row := map[string]any{"title": "Dune", "null": nil}
	assert.Equal(t, "Dune", RowString(row, "title"))
	assert.Equal(t, "", RowString(row, "null"))
	assert.Equal(t, "", RowString(row, "missing"))
}

func TestRowTime(t *testing.T) {
	now := time.Now().UTC()
	row := map[string]any{"created_at": now, "returned_at": nil}

	assert.Equal(t, now, RowTime(row, "created_at"))
	assert.True(t, RowTime(row, "returned_at").IsZero())

	ptr := RowTimePtr(row, "created_at")
	assert.NotNil(t, ptr)
	assert.Equal(t, now, *ptr)
	assert.Nil(t, RowTimePtr(row, "returned_at"))
	assert.Nil(t, RowTimePtr(row, "missing"))
}

func TestConstraintClassification(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "books_isbn_key"}
	fk := &pgconn.PgError{Code: "23503"}
	check := &pgconn.PgError{Code: "23514"}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.True(t, IsCheckViolation(check))

	plain := errors.New("connection reset")
	assert.False(t, IsUniqueViolation(plain))
	assert.False(t, IsForeignKeyViolation(plain))
	assert.False(t, IsCheckViolation(plain))

	wrapped := errors.Join(errors.New("exec failed"), unique)
	assert.True(t, IsUniqueViolation(wrapped))
}
