package controllers

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"student-records/internal/models"
)

// Kind classifies a controller failure so the view can pick how to show it
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

const (
	msgRequired = "All fields are required."
	msgCredits  = "Credits must be a whole number."
)

// Error is the only error type returned by controllers. Fields maps form
// keys to their messages for validation failures.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FieldKeys returns the failing form keys in sorted order
func (e *Error) FieldKeys() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKind reports whether err is a controller error of kind k
func IsKind(err error, k Kind) bool {
	var cerr *Error
	return errors.As(err, &cerr) && cerr.Kind == k
}

func validationError(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// requireFields reports the keys whose value is blank after trimming
func requireFields(values map[string]string) *Error {
	blank := map[string]string{}
	for key, value := range values {
		if strings.TrimSpace(value) == "" {
			blank[key] = "required"
		}
	}
	if len(blank) == 0 {
		return nil
	}
	return validationError(msgRequired, blank)
}

// classify turns a model error into a controller error. label is the
// capitalized entity name used in messages, e.g. "Student".
func classify(label string, err error) *Error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make(map[string]string, len(verr.Fields))
		msgs := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields[f.Field] = f.Message
			msgs = append(msgs, f.Message)
		}
		return &Error{Kind: KindValidation, Message: sentence(strings.Join(msgs, "; ")), Fields: fields, Err: err}
	case errors.Is(err, models.ErrInvalidSort):
		return &Error{Kind: KindValidation, Message: "Unknown sort column.", Err: err}
	case errors.Is(err, models.ErrNotFound):
		return &Error{Kind: KindNotFound, Message: label + " not found.", Err: err}
	case errors.Is(err, models.ErrDuplicate):
		return &Error{Kind: KindConflict, Message: duplicateMessage(label), Err: err}
	default:
		return &Error{Kind: KindStorage, Message: "Database error.", Err: err}
	}
}

func duplicateMessage(label string) string {
	if label == "Course" {
		return "A course with this code already exists."
	}
	return "A student with this student number already exists."
}

func sentence(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	if !strings.HasSuffix(s, ".") {
		r = append(r, '.')
	}
	return string(r)
}
