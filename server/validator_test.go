package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookPayload struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
	ISBN  string `json:"isbn" validate:"required,isbn"`
}

func TestValidatorAcceptsValidPayload(t *testing.T) {
	v := NewValidator()
	require.NotNil(t, v)

	err := v.Validate(&bookPayload{
		Title: "The Go Programming Language",
		ISBN:  "978-0-13-419044-0",
	})
	assert.NoError(t, err)
}

func TestValidatorISBN(t *testing.T) {
	tests := []struct {
		name  string
		isbn  string
		valid bool
	}{
		{name: "isbn13 with hyphens", isbn: "978-0-13-419044-0", valid: true},
		{name: "isbn13 bare", isbn: "9780134190440", valid: true},
		{name: "isbn13 bad check digit", isbn: "9780134190441", valid: false},
		{name: "isbn10", isbn: "0134190440", valid: true},
		{name: "isbn10 with X check digit", isbn: "043942089X", valid: true},
		{name: "isbn10 bad check digit", isbn: "0134190441", valid: false},
		{name: "X in wrong position", isbn: "04394X2089", valid: false},
		{name: "wrong length", isbn: "12345", valid: false},
		{name: "letters", isbn: "abcdefghij", valid: false},
		{name: "empty", isbn: "", valid: false},
	}

	v := NewValidator()
	require.NotNil(t, v)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&bookPayload{Title: "x", ISBN: tt.isbn})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidatorReturnsStructuredErrors(t *testing.T) {
	v := NewValidator()
	require.NotNil(t, v)

	err := v.Validate(&bookPayload{})
	require.Error(t, err)

	ve, ok := err.(*ValidationError)
	require.True(t, ok)
	require.Len(t, ve.Errors, 2)

	assert.Equal(t, "Title", ve.Errors[0].Field)
	assert.Equal(t, "Title is required", ve.Errors[0].Message)
	assert.Equal(t, "ISBN", ve.Errors[1].Field)
}

func TestValidationErrorMessage(t *testing.T) {
	ve := &ValidationError{}
	assert.Equal(t, "validation failed", ve.Error())

	ve = &ValidationError{Errors: []FieldError{{Field: "Title", Message: "Title is required"}}}
	assert.Equal(t, "validation failed: Title is required", ve.Error())

	ve = &ValidationError{Errors: []FieldError{{}, {}}}
	assert.Equal(t, "validation failed: 2 errors", ve.Error())
}
