package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with custom validation logic.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator instance with custom validation rules registered.
func NewValidator() *Validator {
	v := validator.New()

	if err := v.RegisterValidation("isbn", validateISBN); err != nil {
		return nil
	}

	return &Validator{validate: v}
}

// Validate performs validation on the provided struct and returns any validation errors.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewValidationError(validationErrors)
		}
		return err
	}
	return nil
}

// ValidationError wraps validation errors with better messages and structured field errors.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// NewValidationError creates a ValidationError from go-playground/validator errors.
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	fieldErrors := make([]FieldError, 0, len(errs))

	for _, err := range errs {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   err.Field(),
			Message: getErrorMessage(err),
			Value:   fmt.Sprintf("%v", err.Value()),
		})
	}

	return &ValidationError{Errors: fieldErrors}
}

func (ve *ValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}

	if len(ve.Errors) == 1 {
		return fmt.Sprintf("validation failed: %s", ve.Errors[0].Message)
	}

	return fmt.Sprintf("validation failed: %d errors", len(ve.Errors))
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "isbn":
		return fmt.Sprintf("%s must be a valid ISBN-10 or ISBN-13", fe.Field())
	default:
		return fmt.Sprintf("%s failed validation", fe.Field())
	}
}

// validateISBN checks ISBN-10 and ISBN-13 values including check digits.
// Hyphens and spaces are ignored.
func validateISBN(fl validator.FieldLevel) bool {
	s := strings.NewReplacer("-", "", " ", "").Replace(fl.Field().String())
	switch len(s) {
	case 10:
		return isValidISBN10(s)
	case 13:
		return isValidISBN13(s)
	default:
		return false
	}
}

func isValidISBN10(s string) bool {
	sum := 0
	for i, r := range s {
		var v int
		switch {
		case r >= '0' && r <= '9':
			v = int(r - '0')
		case (r == 'X' || r == 'x') && i == 9:
			v = 10
		default:
			return false
		}
		sum += (10 - i) * v
	}
	return sum%11 == 0
}

func isValidISBN13(s string) bool {
	sum := 0
	for i, r := range s {
		if r < '0' || r > '9' {
			return false
		}
		v := int(r - '0')
		if i%2 == 1 {
			v *= 3
		}
		sum += v
	}
	return sum%10 == 0
}
