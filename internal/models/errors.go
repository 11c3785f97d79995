package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotFound is returned when no record has the requested id
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field is already taken
	ErrDuplicate = errors.New("record already exists")
	// ErrInvalidSort is returned for a sort key the entity does not have
	ErrInvalidSort = errors.New("invalid sort key")
)

// FieldError describes one failing field of a record
type FieldError struct {
	Field   string // column name, e.g. "student_no"
	Tag     string // failed validation rule
	Message string
}

// ValidationError lists every failing field of a record
type ValidationError struct {
	Entity string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(msgs, ", "))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("db"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

func validateRecord(entity string, record interface{}) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %s: %w", entity, err)
	}

	out := &ValidationError{Entity: entity}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.ActualTag(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	label := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}
