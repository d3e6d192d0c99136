// Package categories manages catalog classifications.
package categories

import (
	"context"
	"errors"

	"github.com/gaborage/libris/database"
)

// ErrNotFound is returned when no category matches the given id.
var ErrNotFound = errors.New("category not found")

const categoryColumns = "id, name, created_at, updated_at"

// Repository provides data access for categories.
type Repository struct {
	exec *database.Executor
}

// NewRepository creates a category repository on the given executor.
func NewRepository(exec *database.Executor) *Repository {
	return &Repository{exec: exec}
}

// List returns categories ordered by name.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Category, error) {
	result, err := r.exec.Execute(ctx,
		"SELECT "+categoryColumns+" FROM categories ORDER BY name LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]Category, 0, len(result.Rows))
	for _, row := range result.Rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

// Get returns a single category by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Category, error) {
	result, err := r.exec.Execute(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		return nil, ErrNotFound
	}

	category := fromRow(result.Rows[0])
	return &category, nil
}

// Create inserts a new category and returns the stored record.
func (r *Repository) Create(ctx context.Context, name string) (*Category, error) {
	result, err := r.exec.Execute(ctx,
		"INSERT INTO categories (name) VALUES (?) RETURNING "+categoryColumns,
		name)
	if err != nil {
		return nil, err
	}

	category := fromRow(result.Rows[0])
	return &category, nil
}

// Update renames a category.
func (r *Repository) Update(ctx context.Context, id int64, name string) (*Category, error) {
	result, err := r.exec.Execute(ctx,
		"UPDATE categories SET name = ?, updated_at = now() WHERE id = ? RETURNING "+categoryColumns,
		name, id)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		return nil, ErrNotFound
	}

	category := fromRow(result.Rows[0])
	return &category, nil
}

// Delete removes a category by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.exec.Execute(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return err
	}
	if result.Status.AffectedRows == 0 {
		return ErrNotFound
	}
	return nil
}

func fromRow(row map[string]any) Category {
	return Category{
		ID:        database.RowInt64(row, "id"),
		Name:      database.RowString(row, "name"),
		CreatedAt: database.RowTime(row, "created_at"),
		UpdatedAt: database.RowTime(row, "updated_at"),
	}
}
