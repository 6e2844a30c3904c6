// Package validate builds struct validators that report fields by their
// serialized names and turns validation failures into readable errors.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New returns a validator that names fields after the given struct tag
// (yaml, json, mapstructure), so errors match the keys users write.
func New(tag string) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Enum registers tag as a custom validation that accepts a string field
// when parse accepts it. Empty values pass so tags compose with omitempty
// and required.
func Enum[T any](v *validator.Validate, tag string, parse func(string) (T, error)) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := parse(s)
		return err == nil
	})
	if err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Errors is the readable form of validator.ValidationErrors.
type Errors struct {
	Fields validator.ValidationErrors
}

func (e *Errors) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		msgs[i] = message(fe)
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the underlying validator errors.
func (e *Errors) Unwrap() error { return e.Fields }

// Describe converts validator failures into *Errors and passes any other
// error through unchanged.
func Describe(err error) error {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		return &Errors{Fields: fields}
	}
	return err
}

// Field strips the root struct name from a namespace such as
// "Config.limits.time".
func Field(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError) string {
	field := Field(fe)
	param := fe.Param()
	collection := false
	switch fe.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		collection = fe.Tag() != "required"
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if collection {
			return fmt.Sprintf("%s needs at least %s entries, got %d", field, param, reflect.ValueOf(fe.Value()).Len())
		}
		return fmt.Sprintf("%s must be at least %s, got %v", field, param, fe.Value())
	case "max":
		if collection {
			return fmt.Sprintf("%s allows at most %s entries, got %d", field, param, reflect.ValueOf(fe.Value()).Len())
		}
		return fmt.Sprintf("%s must be at most %s, got %v", field, param, fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", field, param, fe.Value())
	case "gte":
		return fmt.Sprintf("%s must not be below %s, got %v", field, param, fe.Value())
	case "lte":
		return fmt.Sprintf("%s must not exceed %s, got %v", field, param, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, param, fmt.Sprint(fe.Value()))
	case "required_if":
		if f := strings.Fields(param); len(f) == 2 {
			return fmt.Sprintf("%s is required when %s is %s", field, strings.ToLower(f[0]), f[1])
		}
		return fmt.Sprintf("%s is required here", field)
	case "gtefield":
		return fmt.Sprintf("%s must not be below %s, got %v", field, param, fe.Value())
	case "unique":
		return fmt.Sprintf("%s contains duplicates", field)
	}
	return fmt.Sprintf("%s: unknown %s %q", field, fe.Tag(), fmt.Sprint(fe.Value()))
}
