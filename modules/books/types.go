package books

import "time"

// Book represents a catalog entry. Quantity counts copies currently on the
// shelf, not the total owned.
type Book struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	ISBN         string    `json:"isbn"`
	AuthorID     int64     `json:"authorId"`
	AuthorName   string    `json:"authorName,omitempty"`
	CategoryID   int64     `json:"categoryId"`
	CategoryName string    `json:"categoryName,omitempty"`
	Quantity     int       `json:"quantity"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SearchFilter narrows a catalog search. Zero values mean "no constraint".
type SearchFilter struct {
	Title      string
	AuthorID   int64
	CategoryID int64
	Available  bool
	Limit      int
	Offset     int
}

type searchRequest struct {
	Title      string `query:"title" validate:"omitempty,max=255"`
	AuthorID   int64  `query:"authorId" validate:"omitempty,min=1"`
	CategoryID int64  `query:"categoryId" validate:"omitempty,min=1"`
	Available  bool   `query:"available"`
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset     int    `query:"offset" validate:"omitempty,min=0"`
}

type getRequest struct {
	ID int64 `param:"id" validate:"required,min=1"`
}

type createRequest struct {
	Title      string `json:"title" validate:"required,min=1,max=255"`
	ISBN       string `json:"isbn" validate:"required,isbn"`
	AuthorID   int64  `json:"authorId" validate:"required,min=1"`
	CategoryID int64  `json:"categoryId" validate:"required,min=1"`
	Quantity   int    `json:"quantity" validate:"omitempty,min=0"`
}

type updateRequest struct {
	ID         int64  `param:"id" validate:"required,min=1"`
	Title      string `json:"title" validate:"required,min=1,max=255"`
	ISBN       string `json:"isbn" validate:"required,isbn"`
	AuthorID   int64  `json:"authorId" validate:"required,min=1"`
	CategoryID int64  `json:"categoryId" validate:"required,min=1"`
	Quantity   int    `json:"quantity" validate:"omitempty,min=0"`
}

type deleteRequest struct {
	ID int64 `param:"id" validate:"required,min=1"`
}
