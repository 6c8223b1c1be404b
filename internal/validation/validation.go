// Package validation wraps go-playground/validator so handlers can turn struct
// tag failures into the field-level error list the API returns on 400s.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Check validates a tagged struct and returns one FieldError per failing field,
// or nil when the input is valid.
func Check(s interface{}) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	fieldErrs := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fieldErrs = append(fieldErrs, FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: messageFor(fe),
		})
	}
	return fieldErrs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return strings.ToLower(fe.Field()) + " is required"
	case "email":
		return "please include a valid email"
	case "min":
		return "please enter a " + strings.ToLower(fe.Field()) + " with " + fe.Param() + " or more characters"
	default:
		return strings.ToLower(fe.Field()) + " is invalid"
	}
}
