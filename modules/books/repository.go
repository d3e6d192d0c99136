// Package books manages the book catalog, including title search.
package books

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/gaborage/libris/database"
)

// ErrNotFound is returned when no book matches the given id.
var ErrNotFound = errors.New("book not found")

// bookColumns selects the joined book row shape shared by Search and Get.
var bookColumns = []string{
	"b.id", "b.title", "b.isbn",
	"b.author_id", "a.name AS author_name",
	"b.category_id", "c.name AS category_name",
	"b.quantity", "b.created_at", "b.updated_at",
}

// Repository provides data access for the book catalog.
type Repository struct {
	exec *database.Executor
}

// NewRepository creates a book repository on the given executor.
func NewRepository(exec *database.Executor) *Repository {
	return &Repository{exec: exec}
}

// Search returns catalog entries matching the filter, ordered by title.
// The statement is assembled dynamically and flows through the same
// placeholder translation as hand-written queries.
func (r *Repository) Search(ctx context.Context, filter SearchFilter) ([]Book, error) {
	qb := database.Builder().
		Select(bookColumns...).
		From("books b").
		Join("authors a ON a.id = b.author_id").
		Join("categories c ON c.id = b.category_id").
		OrderBy("b.title", "b.id").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	if filter.Title != "" {
		qb = qb.Where(database.ILike("b.title", "%"+filter.Title+"%"))
	}
	if filter.AuthorID > 0 {
		qb = qb.Where(squirrel.Eq{"b.author_id": filter.AuthorID})
	}
	if filter.CategoryID > 0 {
		qb = qb.Where(squirrel.Eq{"b.category_id": filter.CategoryID})
	}
	if filter.Available {
		qb = qb.Where(squirrel.Gt{"b.quantity": 0})
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	result, err := r.exec.Execute(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	out := make([]Book, 0, len(result.Rows))
	for _, row := range result.Rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

// Get returns a single catalog entry by id, with author and category names.
func (r *Repository) Get(ctx context.Context, id int64) (*Book, error) {
	result, err := r.exec.Execute(ctx,
		`SELECT b.id, b.title, b.isbn,
		        b.author_id, a.name AS author_name,
		        b.category_id, c.name AS category_name,
		        b.quantity, b.created_at, b.updated_at
		 FROM books b
		 JOIN authors a ON a.id = b.author_id
		 JOIN categories c ON c.id = b.category_id
		 WHERE b.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		return nil, ErrNotFound
	}

	book := fromRow(result.Rows[0])
	return &book, nil
}

// Create inserts a new catalog entry and returns the stored record.
func (r *Repository) Create(ctx context.Context, title, isbn string, authorID, categoryID int64, quantity int) (*Book, error) {
	result, err := r.exec.Execute(ctx,
		"INSERT INTO books (title, isbn, author_id, category_id, quantity) VALUES (?, ?, ?, ?, ?) RETURNING id",
		title, isbn, authorID, categoryID, quantity)
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, database.RowInt64(result.Rows[0], "id"))
}

// Update replaces a catalog entry's fields.
func (r *Repository) Update(ctx context.Context, id int64, title, isbn string, authorID, categoryID int64, quantity int) (*Book, error) {
	result, err := r.exec.Execute(ctx,
		"UPDATE books SET title = ?, isbn = ?, author_id = ?, category_id = ?, quantity = ?, updated_at = now() WHERE id = ? RETURNING id",
		title, isbn, authorID, categoryID, quantity, id)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		return nil, ErrNotFound
	}

	return r.Get(ctx, id)
}

// Delete removes a catalog entry by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.exec.Execute(ctx, "DELETE FROM books WHERE id = ?", id)
	if err != nil {
		return err
	}
	if result.Status.AffectedRows == 0 {
		return ErrNotFound
	}
	return nil
}

func fromRow(row map[string]any) Book {
	return Book{
		ID:           database.RowInt64(row, "id"),
		Title:        database.RowString(row, "title"),
		ISBN:         database.RowString(row, "isbn"),
		AuthorID:     database.RowInt64(row, "author_id"),
		AuthorName:   database.RowString(row, "author_name"),
		CategoryID:   database.RowInt64(row, "category_id"),
		CategoryName: database.RowString(row, "category_name"),
		Quantity:     database.RowInt(row, "quantity"),
		CreatedAt:    database.RowTime(row, "created_at"),
		UpdatedAt:    database.RowTime(row, "updated_at"),
	}
}
