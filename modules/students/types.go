package students

import "time"

// Student represents a registered library member.
type Student struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
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
	Name  string `json:"name" validate:"required,min=1,max=255"`
	Email string `json:"email" validate:"required,email"`
}

type updateRequest struct {
	ID    int64  `param:"id" validate:"required,min=1"`
	Name  string `json:"name" validate:"required,min=1,max=255"`
	Email string `json:"email" validate:"required,email"`
}

type deleteRequest struct {
	ID int64 `param:"id" validate:"required,min=1"`
}
