// Package validation turns go-playground/validator rules into domain
// validation errors keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// Validator checks tagged structs. It is safe for concurrent use.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// Option customises a Validator.
type Option func(*Validator)

// WithClock overrides the time source used by the "future" rule.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// New builds a Validator with the json tag name resolver and the custom rules
// registered.
func New(opts ...Option) *Validator {
	out := &Validator{
		v:   validator.New(validator.WithRequiredStructEnabled()),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(out)
	}

	out.v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// validator only calls this when the field holds a time.Time; nil
	// pointers are handled by omitempty.
	_ = out.v.RegisterValidation("future", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return t.After(out.now())
	})
	return out
}

// Struct validates s and returns every violated rule, or nil.
func (v *Validator) Struct(s any) *domain.ValidationError {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	verr := domain.NewValidationError()
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("_", err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), Message(fe.Field(), fe.Tag(), fe.Param()))
	}
	return verr
}

// Message renders one rule failure the way API clients expect it.
func Message(field, tag, param string) string {
	attr := Attribute(field)
	switch tag {
	case "required":
		return fmt.Sprintf("The %s field is required.", attr)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", attr)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", attr, param)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", attr, param)
	case "future":
		return fmt.Sprintf("The %s field must be a date after now.", attr)
	case "date":
		return fmt.Sprintf("The %s field must be a valid date.", attr)
	case "confirmed":
		return fmt.Sprintf("The %s field confirmation does not match.", attr)
	case "unique":
		return fmt.Sprintf("The %s has already been taken.", attr)
	case "string":
		return fmt.Sprintf("The %s field must be a string.", attr)
	case "boolean":
		return fmt.Sprintf("The %s field must be true or false.", attr)
	default:
		return fmt.Sprintf("The %s field is invalid.", attr)
	}
}

// Attribute is the human form of a JSON field name.
func Attribute(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
