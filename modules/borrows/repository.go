// Package borrows manages the lending lifecycle: borrowing a copy,
// returning it, and listing open loans.
package borrows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/gaborage/libris/database"
)

var (
	// ErrNotFound is returned when no borrow record matches the given ref.
	ErrNotFound = errors.New("borrow record not found")
	// ErrBookNotFound is returned when the requested book does not exist.
	ErrBookNotFound = errors.New("book not found")
	// ErrNoCopiesAvailable is returned when every copy is currently lent out.
	ErrNoCopiesAvailable = errors.New("no copies available")
	// ErrAlreadyReturned is returned when the loan was already closed.
	ErrAlreadyReturned = errors.New("borrow record already returned")
)

// borrowColumns selects the joined record shape shared by Get and List.
// The ref column is cast to text so it arrives as a plain string.
const borrowColumns = `br.id, br.ref::text AS ref,
	br.student_id, s.name AS student_name,
	br.book_id, b.title AS book_title,
	br.borrowed_at, br.due_at, br.returned_at`

// Repository provides data access for borrow records.
type Repository struct {
	exec *database.Executor
}

// NewRepository creates a borrow repository on the given executor.
func NewRepository(exec *database.Executor) *Repository {
	return &Repository{exec: exec}
}

// Borrow takes one copy of the book off the shelf and opens a loan for the
// student, due after the given number of days. The quantity decrement is
// guarded so the count never goes below zero under concurrent requests.
func (r *Repository) Borrow(ctx context.Context, studentID, bookID int64, days int) (*BorrowRecord, error) {
	taken, err := r.exec.Execute(ctx,
		"UPDATE books SET quantity = quantity - 1 WHERE id = ? AND quantity > 0", bookID)
	if err != nil {
		return nil, err
	}
	if taken.Status.AffectedRows == 0 {
		exists, err := r.exec.Execute(ctx, "SELECT 1 FROM books WHERE id = ?", bookID)
		if err != nil {
			return nil, err
		}
		if len(exists.Rows) == 0 {
			return nil, ErrBookNotFound
		}
		return nil, ErrNoCopiesAvailable
	}

	ref := uuid.New().String()
	dueAt := time.Now().UTC().AddDate(0, 0, days)

	_, err = r.exec.Execute(ctx,
		"INSERT INTO borrow_records (ref, student_id, book_id, due_at) VALUES (?, ?, ?, ?)",
		ref, studentID, bookID, dueAt)
	if err != nil {
		// Put the copy back; the decrement above already committed.
		if _, restoreErr := r.exec.Execute(ctx,
			"UPDATE books SET quantity = quantity + 1 WHERE id = ?", bookID); restoreErr != nil {
			return nil, fmt.Errorf("restore quantity after failed borrow: %w", errors.Join(err, restoreErr))
		}
		return nil, err
	}

	return r.Get(ctx, ref)
}

// Return closes the loan identified by ref and puts the copy back on the
// shelf. Returning an already-closed loan fails with ErrAlreadyReturned.
func (r *Repository) Return(ctx context.Context, ref string) (*BorrowRecord, error) {
	result, err := r.exec.Execute(ctx,
		"UPDATE borrow_records SET returned_at = now() WHERE ref = ? AND returned_at IS NULL RETURNING book_id",
		ref)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		// Distinguish an unknown ref from a closed loan.
		existing, err := r.exec.Execute(ctx,
			"SELECT 1 FROM borrow_records WHERE ref = ?", ref)
		if err != nil {
			return nil, err
		}
		if len(existing.Rows) == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrAlreadyReturned
	}

	bookID := database.RowInt64(result.Rows[0], "book_id")
	if _, err := r.exec.Execute(ctx,
		"UPDATE books SET quantity = quantity + 1 WHERE id = ?", bookID); err != nil {
		return nil, err
	}

	return r.Get(ctx, ref)
}

// Get returns a single borrow record by ref, with student and book names.
func (r *Repository) Get(ctx context.Context, ref string) (*BorrowRecord, error) {
	result, err := r.exec.Execute(ctx,
		`SELECT `+borrowColumns+`
		 FROM borrow_records br
		 JOIN students s ON s.id = br.student_id
		 JOIN books b ON b.id = br.book_id
		 WHERE br.ref = ?`, ref)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		return nil, ErrNotFound
	}

	record := fromRow(result.Rows[0])
	return &record, nil
}

// List returns borrow records matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]BorrowRecord, error) {
	qb := database.Builder().
		Select("br.id", "br.ref::text AS ref",
			"br.student_id", "s.name AS student_name",
			"br.book_id", "b.title AS book_title",
			"br.borrowed_at", "br.due_at", "br.returned_at").
		From("borrow_records br").
		Join("students s ON s.id = br.student_id").
		Join("books b ON b.id = br.book_id").
		OrderBy("br.borrowed_at DESC", "br.id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	if filter.StudentID > 0 {
		qb = qb.Where(squirrel.Eq{"br.student_id": filter.StudentID})
	}
	if filter.Open {
		qb = qb.Where("br.returned_at IS NULL")
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	result, err := r.exec.Execute(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	out := make([]BorrowRecord, 0, len(result.Rows))
	for _, row := range result.Rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

func fromRow(row map[string]any) BorrowRecord {
	return BorrowRecord{
		ID:          database.RowInt64(row, "id"),
		Ref:         database.RowString(row, "ref"),
		StudentID:   database.RowInt64(row, "student_id"),
		StudentName: database.RowString(row, "student_name"),
		BookID:      database.RowInt64(row, "book_id"),
		BookTitle:   database.RowString(row, "book_title"),
		BorrowedAt:  database.RowTime(row, "borrowed_at"),
		DueAt:       database.RowTime(row, "due_at"),
		ReturnedAt:  database.RowTimePtr(row, "returned_at"),
	}
}
