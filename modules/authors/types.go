package authors

import "time"

// Author represents a book author.
type Author struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type listRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

type getRequest struct {
	ID int64 `param:"id" validate:"required,min=1"`
}

type createRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
	Bio  string `json:"bio" validate:"omitempty,max=4000"`
}

type updateRequest struct {
	ID   int64  `param:"id" validate:"required,min=1"`
	Name string `json:"name" validate:"required,min=1,max=255"`
	Bio  string `json:"bio" validate:"omitempty,max=4000"`
}

type deleteRequest struct {
	ID int64 `param:"id" validate:"required,min=1"`
}
