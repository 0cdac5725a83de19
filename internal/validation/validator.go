// Package validation checks request payloads and renders violations as
// per-field error entries.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const locationSeparator = " -> "

// FieldError describes one violated request field
type FieldError struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Type     string `json:"type"`
}

// Validator validates structs using `binding` tags. It satisfies gin's
// binding.StructValidator so the same rules apply to HTTP and MCP requests.
type Validator struct {
	once     sync.Once
	validate *validator.Validate
}

// New creates a validator
func New() *Validator {
	v := &Validator{}
	v.lazyInit()
	return v
}

// ValidateStruct validates obj when it is a struct or a pointer to one
func (v *Validator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}

	value := reflect.ValueOf(obj)
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}

	v.lazyInit()
	return v.validate.Struct(value.Interface())
}

// Engine returns the underlying validator instance
func (v *Validator) Engine() any {
	v.lazyInit()
	return v.validate
}

func (v *Validator) lazyInit() {
	v.once.Do(func() {
		v.validate = validator.New(validator.WithRequiredStructEnabled())
		v.validate.SetTagName("binding")
		v.validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

// FieldErrors converts a decode or validation error into field entries.
// Returns nil when err is not a request validation problem.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		out := make([]FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			out = append(out, fromFieldError(fe))
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []FieldError{{
			Location: location(strings.Split(typeErr.Field, ".")...),
			Message:  typeMessage(typeErr.Type),
			Type:     "type_error." + typeName(typeErr.Type),
		}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return []FieldError{{
			Location: location(fmt.Sprintf("%d", syntaxErr.Offset)),
			Message:  syntaxErr.Error(),
			Type:     "value_error.jsondecode",
		}}
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		return []FieldError{{
			Location: location(),
			Message:  "unexpected end of JSON input",
			Type:     "value_error.jsondecode",
		}}
	}

	if errors.Is(err, io.EOF) {
		return []FieldError{{
			Location: location(),
			Message:  "field required",
			Type:     "value_error.missing",
		}}
	}

	return nil
}

// IsValidationError reports whether err describes an invalid request
func IsValidationError(err error) bool {
	return FieldErrors(err) != nil
}

func fromFieldError(fe validator.FieldError) FieldError {
	// Namespace starts with the Go type name of the top level struct
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}

	entry := FieldError{Location: location(parts...)}
	switch fe.Tag() {
	case "required":
		entry.Message = "field required"
		entry.Type = "value_error.missing"
	case "min", "gte":
		entry.Message = "ensure this value is greater than or equal to " + fe.Param()
		entry.Type = "value_error.number.not_ge"
	case "max", "lte":
		entry.Message = "ensure this value is less than or equal to " + fe.Param()
		entry.Type = "value_error.number.not_le"
	default:
		entry.Message = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		entry.Type = "value_error." + fe.Tag()
	}
	return entry
}

func location(parts ...string) string {
	path := []string{"body"}
	for _, p := range parts {
		if p != "" {
			path = append(path, p)
		}
	}
	return strings.Join(path, locationSeparator)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	switch t.Kind() {
	case reflect.String:
		return "str"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Bool:
		return "bool"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map, reflect.Struct:
		return "dict"
	case reflect.Ptr:
		return typeName(t.Elem())
	}
	return t.Kind().String()
}

func typeMessage(t reflect.Type) string {
	switch typeName(t) {
	case "str":
		return "str type expected"
	case "integer":
		return "value is not a valid integer"
	case "float":
		return "value is not a valid float"
	case "bool":
		return "value could not be parsed to a boolean"
	case "list":
		return "value is not a valid list"
	case "dict":
		return "value is not a valid dict"
	}
	return "invalid type"
}
