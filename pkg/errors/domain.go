package errors

import "fmt"

// FieldDetails is attached to validation failures.
type FieldDetails struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// EntityDetails identifies the record a conflict or lookup failure refers to.
type EntityDetails struct {
	Entity string `json:"entity"`
	ID     string `json:"id,omitempty"`
	Field  string `json:"field,omitempty"`
	Slug   string `json:"slug,omitempty"`
}

// ValidationFailed reports a single field that failed a format, range or
// required constraint.
func ValidationFailed(field, reason string) *Error {
	return New(CodeValidation, fmt.Sprintf("%s %s", field, reason)).
		WithDetails(FieldDetails{Field: field, Reason: reason})
}

func DuplicateSlug(entity, slug string) *Error {
	return New(CodeDuplicateSlug, fmt.Sprintf("%s slug %q already exists", entity, slug)).
		WithDetails(EntityDetails{Entity: entity, Slug: slug})
}

func DuplicateValue(entity, field string) *Error {
	return New(CodeDuplicateValue, fmt.Sprintf("%s %s already exists", entity, field)).
		WithDetails(EntityDetails{Entity: entity, Field: field})
}

func NotFound(entity, id string) *Error {
	return New(CodeNotFound, fmt.Sprintf("%s %s not found", entity, id)).
		WithDetails(EntityDetails{Entity: entity, ID: id})
}

// NumberGenerationExhausted is returned when every candidate order number
// within the attempt budget was already taken.
func NumberGenerationExhausted(attempts int) *Error {
	return New(CodeNumberExhausted, fmt.Sprintf("no free order number after %d attempts", attempts)).
		WithDetails(map[string]int{"attempts": attempts})
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
