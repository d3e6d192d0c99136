// Package authors manages the author catalog.
package authors

import (
	"context"
	"errors"

	"github.com/gaborage/libris/database"
)

// ErrNotFound is returned when no author matches the given id.
var ErrNotFound = errors.New("author not found")

const authorColumns = "id, name, bio, created_at, updated_at"

// Repository provides data access for authors.
type Repository struct {
	exec *database.Executor
}

// NewRepository creates an author repository on the given executor.
func NewRepository(exec *database.Executor) *Repository {
	return &Repository{exec: exec}
}

// List returns authors ordered by name.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Author, error) {
	result, err := r.exec.Execute(ctx,
		"SELECT "+authorColumns+" FROM authors ORDER BY name, id LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]Author, 0, len(result.Rows))
	for _, row := range result.Rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

// Get returns a single author by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Author, error) {
	result, err := r.exec.Execute(ctx,
		"SELECT "+authorColumns+" FROM authors WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		return nil, ErrNotFound
	}

	author := fromRow(result.Rows[0])
	return &author, nil
}

// Create inserts a new author and returns the stored record.
func (r *Repository) Create(ctx context.Context, name, bio string) (*Author, error) {
	result, err := r.exec.Execute(ctx,
		"INSERT INTO authors (name, bio) VALUES (?, ?) RETURNING "+authorColumns,
		name, bio)
	if err != nil {
		return nil, err
	}

	author := fromRow(result.Rows[0])
	return &author, nil
}

// Update replaces an author's name and bio.
func (r *Repository) Update(ctx context.Context, id int64, name, bio string) (*Author, error) {
	result, err := r.exec.Execute(ctx,
		"UPDATE authors SET name = ?, bio = ?, updated_at = now() WHERE id = ? RETURNING "+authorColumns,
		name, bio, id)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		return nil, ErrNotFound
	}

	author := fromRow(result.Rows[0])
	return &author, nil
}

// Delete removes an author by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.exec.Execute(ctx, "DELETE FROM authors WHERE id = ?", id)
	if err != nil {
		return err
	}
	if result.Status.AffectedRows == 0 {
		return ErrNotFound
	}
	return nil
}

func fromRow(row map[string]any) Author {
	return Author{
		ID:        database.RowInt64(row, "id"),
		Name:      database.RowString(row, "name"),
		Bio:       database.RowString(row, "bio"),
		CreatedAt: database.RowTime(row, "created_at"),
		UpdatedAt: database.RowTime(row, "updated_at"),
	}
}
