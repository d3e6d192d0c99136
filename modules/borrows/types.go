package borrows

import "time"

// BorrowRecord represents one lending of a book copy to a student. Ref is
// the public identifier; the numeric id never leaves the database layer.
type BorrowRecord struct {
	ID          int64      `json:"-"`
	Ref         string     `json:"ref"`
	StudentID   int64      `json:"studentId"`
	StudentName string     `json:"studentName,omitempty"`
	BookID      int64      `json:"bookId"`
	BookTitle   string     `json:"bookTitle,omitempty"`
	BorrowedAt  time.Time  `json:"borrowedAt"`
	DueAt       time.Time  `json:"dueAt"`
	ReturnedAt  *time.Time `json:"returnedAt,omitempty"`
}

// ListFilter narrows a borrow record listing. Zero values mean "no constraint".
type ListFilter struct {
	StudentID int64
	Open      bool
	Limit     int
	Offset    int
}

type borrowRequest struct {
	StudentID int64 `json:"studentId" validate:"required,min=1"`
	BookID    int64 `json:"bookId" validate:"required,min=1"`
	Days      int   `json:"days" validate:"omitempty,min=1,max=90"`
}

type returnRequest struct {
	Ref string `param:"ref" validate:"required,uuid"`
}

type getRequest struct {
	Ref string `param:"ref" validate:"required,uuid"`
}

type listRequest struct {
	StudentID int64 `query:"studentId" validate:"omitempty,min=1"`
	Open      bool  `query:"open"`
	Limit     int   `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset    int   `query:"offset" validate:"omitempty,min=0"`
}

// borrowedEvent is published when a copy leaves the shelf.
type borrowedEvent struct {
	Ref       string    `json:"ref"`
	StudentID int64     `json:"studentId"`
	BookID    int64     `json:"bookId"`
	DueAt     time.Time `json:"dueAt"`
}

// returnedEvent is published when a copy comes back.
type returnedEvent struct {
	Ref        string    `json:"ref"`
	StudentID  int64     `json:"studentId"`
	BookID     int64     `json:"bookId"`
	ReturnedAt time.Time `json:"returnedAt"`
}
