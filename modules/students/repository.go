// Package students manages library member registration and lookup.
package students

import (
	"context"
	"errors"

	"github.com/gaborage/libris/database"
)

// ErrNotFound is returned when no student matches the given id.
var ErrNotFound = errors.New("student not found")

const studentColumns = "id, name, email, created_at, updated_at"

// Repository provides data access for students.
type Repository struct {
	exec *database.Executor
}

// NewRepository creates a student repository on the given executor.
func NewRepository(exec *database.Executor) *Repository {
	return &Repository{exec: exec}
}

// List returns students ordered by id.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Student, error) {
	result, err := r.exec.Execute(ctx,
		"SELECT "+studentColumns+" FROM students ORDER BY id LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]Student, 0, len(result.Rows))
	for _, row := range result.Rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

// Get returns a single student by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Student, error) {
	result, err := r.exec.Execute(ctx,
		"SELECT "+studentColumns+" FROM students WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		return nil, ErrNotFound
	}

	student := fromRow(result.Rows[0])
	return &student, nil
}

// Create inserts a new student and returns the stored record.
func (r *Repository) Create(ctx context.Context, name, email string) (*Student, error) {
	result, err := r.exec.Execute(ctx,
		"INSERT INTO students (name, email) VALUES (?, ?) RETURNING "+studentColumns,
		name, email)
	if err != nil {
		return nil, err
	}

	student := fromRow(result.Rows[0])
	return &student, nil
}

// Update replaces a student's name and email.
func (r *Repository) Update(ctx context.Context, id int64, name, email string) (*Student, error) {
	result, err := r.exec.Execute(ctx,
		"UPDATE students SET name = ?, email = ?, updated_at = now() WHERE id = ? RETURNING "+studentColumns,
		name, email, id)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		return nil, ErrNotFound
	}

	student := fromRow(result.Rows[0])
	return &student, nil
}

// Delete removes a student by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.exec.Execute(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return err
	}
	if result.Status.AffectedRows == 0 {
		return ErrNotFound
	}
	return nil
}

func fromRow(row map[string]any) Student {
	return Student{
		ID:        database.RowInt64(row, "id"),
		Name:      database.RowString(row, "name"),
		Email:     database.RowString(row, "email"),
		CreatedAt: database.RowTime(row, "created_at"),
		UpdatedAt: database.RowTime(row, "updated_at"),
	}
}
