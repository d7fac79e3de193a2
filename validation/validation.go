// Package validation holds the declarative input rules applied before a
// request reaches the use cases.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Locations of a failing value in the request.
const (
	LocationBody   = "body"
	LocationParams = "params"
)

// FieldError describes one rejected input value.
type FieldError struct {
	Field    string `json:"field"`
	Location string `json:"location"`
	Message  string `json:"message"`
}

// Errors is the list of field failures of a single request.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("bloodpressure", func(fl validator.FieldLevel) bool {
		return bloodPressurePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateID checks that a path identifier is a record id in the canonical
// lower-case hyphenated form the store writes.
func ValidateID(id string) *FieldError {
	if parsed, err := uuid.Parse(id); err != nil || parsed.String() != id {
		return &FieldError{Field: "id", Location: LocationParams, Message: "Invalid id"}
	}
	return nil
}
