package book

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// CreateInput is the request body of a book creation.
type CreateInput struct {
	ISBN     string `json:"isbn" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Author   string `json:"author" validate:"required"`
	Year     int    `json:"year" validate:"gte=1900"`
	Category string `json:"category" validate:"required"`
}

// UpdateInput is the request body of a book update. The ISBN comes from the path.
type UpdateInput struct {
	Title    string `json:"title" validate:"required"`
	Author   string `json:"author" validate:"required"`
	Year     int    `json:"year" validate:"gte=1900"`
	Category string `json:"category" validate:"required"`
}

// FieldError describes why a single field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a request does not satisfy the book rules.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Message
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// InvalidData builds the ValidationError reported for a malformed book payload.
func InvalidData(fields ...FieldError) *ValidationError {
	return &ValidationError{Message: "Invalid book data", Fields: fields}
}

// ValidateCreate checks a creation payload. ISBN uniqueness is checked against the store separately.
func ValidateCreate(in CreateInput) error {
	return validateStruct(in)
}

// ValidateUpdate checks an update payload with the same rules as creation, minus the ISBN.
func ValidateUpdate(in UpdateInput) error {
	return validateStruct(in)
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()

		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "gte":
			message = fmt.Sprintf("%s must be %s or later", field, fe.Param())
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}
		fields = append(fields, FieldError{Field: field, Message: message})
	}
	return InvalidData(fields...)
}
