package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Validator validates structs by `validate` tags
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates a struct. Supported rules: required, min=N, max=N.
// Numeric fields compare by value, strings and slices by length.
func (v *Validator) Validate(s interface{}) error {
	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return fmt.Errorf("validate expects a struct")
	}

	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)
		tag := fieldType.Tag.Get("validate")

		if tag == "" {
			continue
		}

		if err := v.validateField(field, tag); err != nil {
			return fmt.Errorf("%s: %w", fieldName(fieldType), err)
		}
	}

	return nil
}

// fieldName prefers the JSON name so errors match the wire format
func fieldName(fieldType reflect.StructField) string {
	jsonTag := fieldType.Tag.Get("json")
	if jsonTag != "" && jsonTag != "-" {
		return strings.SplitN(jsonTag, ",", 2)[0]
	}
	return fieldType.Name
}

// validateField validates a single field
func (v *Validator) validateField(field reflect.Value, tag string) error {
	for _, rule := range strings.Split(tag, ",") {
		parts := strings.SplitN(rule, "=", 2)

		switch parts[0] {
		case "required":
			if field.IsZero() {
				return fmt.Errorf("field is required")
			}

		case "min":
			if len(parts) < 2 {
				continue
			}
			bound, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				continue
			}
			if fieldSize(field) < bound {
				return fmt.Errorf("must be at least %d", bound)
			}

		case "max":
			if len(parts) < 2 {
				continue
			}
			bound, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				continue
			}
			if fieldSize(field) > bound {
				return fmt.Errorf("must be at most %d", bound)
			}
		}
	}

	return nil
}

// fieldSize returns the comparable size of a field: the value for numbers,
// the length for strings and slices
func fieldSize(field reflect.Value) int64 {
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return field.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(field.Uint())
	case reflect.String, reflect.Slice, reflect.Map:
		return int64(field.Len())
	default:
		return 0
	}
}
