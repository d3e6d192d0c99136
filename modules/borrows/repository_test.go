package borrows

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/libris/database"
	"github.com/gaborage/libris/database/dbtest"
	"github.com/gaborage/libris/logger"
)

func newRepository(pool *dbtest.FakePool) *Repository {
	exec := database.NewExecutor(pool, logger.New("disabled", false), database.NewSettings(nil))
	return NewRepository(exec)
}

func borrowRow(ref string, returnedAt any) *dbtest.RowSet {
	now := time.Now().UTC()
	return dbtest.NewRowSet(
		"id", "ref", "student_id", "student_name",
		"book_id", "book_title", "borrowed_at", "due_at", "returned_at").
		AddRow(int64(1), ref, int64(3), "Ada Lovelace",
			int64(7), "Dune", now, now.AddDate(0, 0, 14), returnedAt)
}

func emptyBorrowRows() *dbtest.RowSet {
	return dbtest.NewRowSet(
		"id", "ref", "student_id", "student_name",
		"book_id", "book_title", "borrowed_at", "due_at", "returned_at")
}

func TestBorrowSuccess(t *testing.T) {
	ref := uuid.New().String()
	pool := dbtest.NewFakePool()
	pool.ExpectQuery("UPDATE books SET quantity = quantity - 1").WillReturnTag("UPDATE 1")
	pool.ExpectQuery("INSERT INTO borrow_records").WillReturnTag("INSERT 0 1")
	pool.ExpectQuery("FROM borrow_records br").WillReturnRows(borrowRow(ref, nil))

	repo := newRepository(pool)
	record, err := repo.Borrow(context.Background(), 3, 7, 14)
	require.NoError(t, err)

	assert.Equal(t, ref, record.Ref)
	assert.Equal(t, "Ada Lovelace", record.StudentName)
	assert.Equal(t, "Dune", record.BookTitle)
	assert.Nil(t, record.ReturnedAt)

	calls := pool.Calls()
	require.Len(t, calls, 3)
	assert.Contains(t, calls[0].SQL, "WHERE id = $1 AND quantity > 0")
	assert.Equal(t, []any{int64(7)}, calls[0].Args)

	// The insert carries a generated ref followed by the loan fields.
	require.Len(t, calls[1].Args, 4)
	_, parseErr := uuid.Parse(calls[1].Args[0].(string))
	assert.NoError(t, parseErr)
	assert.Equal(t, int64(3), calls[1].Args[1])
	assert.Equal(t, int64(7), calls[1].Args[2])
}

func TestBorrowUnknownBook(t *testing.T) {
	pool := dbtest.NewFakePool()
	pool.ExpectQuery("UPDATE books SET quantity = quantity - 1").WillReturnTag("UPDATE 0")
	pool.ExpectQuery("SELECT 1 FROM books").WillReturnRows(dbtest.NewRowSet("?column?"))

	repo := newRepository(pool)
	_, err := repo.Borrow(context.Background(), 3, 99, 14)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestBorrowNoCopiesAvailable(t *testing.T) {
	pool := dbtest.NewFakePool()
	pool.ExpectQuery("UPDATE books SET quantity = quantity - 1").WillReturnTag("UPDATE 0")
	pool.ExpectQuery("SELECT 1 FROM books").WillReturnRows(
		dbtest.NewRowSet("?column?").AddRow(int32(1)))

	repo := newRepository(pool)
	_, err := repo.Borrow(context.Background(), 3, 7, 14)
	assert.ErrorIs(t, err, ErrNoCopiesAvailable)
}

func TestBorrowRestoresQuantityWhenInsertFails(t *testing.T) {
	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "borrow_records_student_id_fkey"}
	pool := dbtest.NewFakePool()
	pool.ExpectQuery("UPDATE books SET quantity = quantity - 1").WillReturnTag("UPDATE 1")
	pool.ExpectQuery("INSERT INTO borrow_records").WillReturnError(fkErr)
	pool.ExpectQuery("UPDATE books SET quantity = quantity + 1").WillReturnTag("UPDATE 1")

	repo := newRepository(pool)
	_, err := repo.Borrow(context.Background(), 99, 7, 14)

	assert.True(t, database.IsForeignKeyViolation(err))
	assert.Len(t, pool.Calls(), 3)
	assert.Zero(t, pool.Pending())
}

func TestReturnSuccess(t *testing.T) {
	ref := uuid.New().String()
	returnedAt := time.Now().UTC()
	pool := dbtest.NewFakePool()
	pool.ExpectQuery("UPDATE borrow_records SET returned_at = now()").WillReturnRows(
		dbtest.NewRowSet("book_id").AddRow(int64(7)))
	pool.ExpectQuery("UPDATE books SET quantity = quantity + 1").WillReturnTag("UPDATE 1")
	pool.ExpectQuery("FROM borrow_records br").WillReturnRows(borrowRow(ref, returnedAt))

	repo := newRepository(pool)
	record, err := repo.Return(context.Background(), ref)
	require.NoError(t, err)

	require.NotNil(t, record.ReturnedAt)
	assert.Equal(t, returnedAt, *record.ReturnedAt)

	calls := pool.Calls()
	require.Len(t, calls, 3)
	assert.Contains(t, calls[0].SQL, "WHERE ref = $1 AND returned_at IS NULL RETURNING book_id")
	assert.Equal(t, []any{int64(7)}, calls[1].Args)
}

func TestReturnUnknownRef(t *testing.T) {
	pool := dbtest.NewFakePool()
	pool.ExpectQuery("UPDATE borrow_records SET returned_at = now()").WillReturnRows(
		dbtest.NewRowSet("book_id"))
	pool.ExpectQuery("SELECT 1 FROM borrow_records").WillReturnRows(
		dbtest.NewRowSet("?column?"))

	repo := newRepository(pool)
	_, err := repo.Return(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReturnAlreadyReturned(t *testing.T) {
	pool := dbtest.NewFakePool()
	pool.ExpectQuery("UPDATE borrow_records SET returned_at = now()").WillReturnRows(
		dbtest.NewRowSet("book_id"))
	pool.ExpectQuery("SELECT 1 FROM borrow_records").WillReturnRows(
		dbtest.NewRowSet("?column?").AddRow(int32(1)))

	repo := newRepository(pool)
	_, err := repo.Return(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrAlreadyReturned)
}

func TestGetNotFound(t *testing.T) {
	pool := dbtest.NewFakePool()
	pool.ExpectQuery("WHERE br.ref = $1").WillReturnRows(emptyBorrowRows())

	repo := newRepository(pool)
	_, err := repo.Get(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOpenLoansForStudent(t *testing.T) {
	pool := dbtest.NewFakePool()
	pool.ExpectQuery("FROM borrow_records br").WillReturnRows(
		borrowRow(uuid.New().String(), nil))

	repo := newRepository(pool)
	result, err := repo.List(context.Background(), ListFilter{
		StudentID: 3,
		Open:      true,
		Limit:     20,
	})
	require.NoError(t, err)
	require.Len(t, result, 1)

	call := pool.LastCall()
	assert.Contains(t, call.SQL, "br.student_id = $1")
	assert.Contains(t, call.SQL, "br.returned_at IS NULL")
	assert.Contains(t, call.SQL, "ORDER BY br.borrowed_at DESC")
	assert.Equal(t, []any{int64(3)}, call.Args)
}
