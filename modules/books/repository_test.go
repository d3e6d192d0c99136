package books

import (
	"context"
	"testing"
	"time"

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

func bookRow(id int64, title, isbn string) *dbtest.RowSet {
	now := time.Now().UTC()
	return dbtest.NewRowSet(
		"id", "title", "isbn",
		"author_id", "author_name",
		"category_id", "category_name",
		"quantity", "created_at", "updated_at").
		AddRow(id, title, isbn, int64(1), "Frank Herbert", int64(2), "Science Fiction", int32(3), now, now)
}

func TestSearchWithoutFilters(t *testing.T) {
	pool := dbtest.NewFakePool()
	pool.ExpectQuery("FROM books b").WillReturnRows(bookRow(1, "Dune", "9780441013593"))

	repo := newRepository(pool)
	result, err := repo.Search(context.Background(), SearchFilter{Limit: 20})
	require.NoError(t, err)
	require.Len(t, result, 1)

	book := result[0]
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Frank Herbert", book.AuthorName)
	assert.Equal(t, "Science Fiction", book.CategoryName)
	assert.Equal(t, 3, book.Quantity)

	call := pool.LastCall()
	assert.Contains(t, call.SQL, "JOIN authors a ON a.id = b.author_id")
	assert.Contains(t, call.SQL, "ORDER BY b.title, b.id")
	assert.Contains(t, call.SQL, "LIMIT 20")
	assert.Empty(t, call.Args)
}

func TestSearchTitleFilterIsTranslated(t *testing.T) {
	pool := dbtest.NewFakePool()
	pool.ExpectQuery("ILIKE").WillReturnRows(bookRow(1, "Dune", "9780441013593"))

	repo := newRepository(pool)
	_, err := repo.Search(context.Background(), SearchFilter{Title: "dune", Limit: 20})
	require.NoError(t, err)

	call := pool.LastCall()
	assert.Contains(t, call.SQL, "b.title ILIKE $1")
	assert.Equal(t, []any{"%dune%"}, call.Args)
}

func TestSearchCombinedFilters(t *testing.T) {
	pool := dbtest.NewFakePool()
	pool.ExpectQuery("FROM books b").WillReturnRows(bookRow(1, "Dune", "9780441013593"))

	repo := newRepository(pool)
	_, err := repo.Search(context.Background(), SearchFilter{
		Title:      "dune",
		AuthorID:   1,
		CategoryID: 2,
		Available:  true,
		Limit:      10,
		Offset:     20,
	})
	require.NoError(t, err)

	call := pool.LastCall()
	assert.Contains(t, call.SQL, "b.title ILIKE $1")
	assert.Contains(t, call.SQL, "b.author_id = $2")
	assert.Contains(t, call.SQL, "b.category_id = $3")
	assert.Contains(t, call.SQL, "b.quantity > $4")
	assert.Contains(t, call.SQL, "OFFSET 20")
	assert.Equal(t, []any{"%dune%", int64(1), int64(2), 0}, call.Args)
}

func TestGetNotFound(t *testing.T) {
	pool := dbtest.NewFakePool()
	pool.ExpectQuery("WHERE b.id = $1").WillReturnRows(dbtest.NewRowSet(
		"id", "title", "isbn", "author_id", "author_name",
		"category_id", "category_name", "quantity", "created_at", "updated_at"))

	repo := newRepository(pool)
	_, err := repo.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateFetchesStoredRecord(t *testing.T) {
	pool := dbtest.NewFakePool()
	pool.ExpectQuery("INSERT INTO books").WillReturnRows(
		dbtest.NewRowSet("id").AddRow(int64(42)))
	pool.ExpectQuery("WHERE b.id = $1").WillReturnRows(bookRow(42, "Dune", "9780441013593"))

	repo := newRepository(pool)
	book, err := repo.Create(context.Background(), "Dune", "9780441013593", 1, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(42), book.ID)
	assert.Equal(t, "Frank Herbert", book.AuthorName)

	calls := pool.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[0].SQL, "VALUES ($1, $2, $3, $4, $5) RETURNING id")
	assert.Equal(t, []any{int64(42)}, calls[1].Args)
}

func TestUpdateNotFound(t *testing.T) {
	pool := dbtest.NewFakePool()
	pool.ExpectQuery("UPDATE books").WillReturnRows(dbtest.NewRowSet("id"))

	repo := newRepository(pool)
	_, err := repo.Update(context.Background(), 99, "x", "9780441013593", 1, 2, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteNotFound(t *testing.T) {
	pool := dbtest.NewFakePool()
	pool.ExpectQuery("DELETE FROM books").WillReturnTag("DELETE 0")

	repo := newRepository(pool)
	assert.ErrorIs(t, repo.Delete(context.Background(), 99), ErrNotFound)
}
