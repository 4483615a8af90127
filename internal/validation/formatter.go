package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	date     = "date"
	mx       = "max"
	mn       = "min"
	oneof    = "oneof"
	required = "required"
)

func formatValidationError(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case date:
		return fmt.Sprintf("%q should be in the format of YYYY-MM-DD", field)
	case mx:
		return fmt.Sprintf("%q %s less than or equal to %s", field, lengthPrefix(err.Kind()), withUnit(err))
	case mn:
		return fmt.Sprintf("%q %s greater than or equal to %s", field, lengthPrefix(err.Kind()), withUnit(err))
	case oneof:
		valids := []string{}
		for _, p := range strings.Fields(err.Param()) {
			valids = append(valids, fmt.Sprintf("%q", p))
		}
		return fmt.Sprintf("%q must be one of the following: %s", field, strings.Join(valids, ", "))
	case required:
		return fmt.Sprintf("%q is required", field)
	default:
		return fmt.Sprintf("%q failed the %q rule", field, err.Tag())
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func lengthPrefix(k reflect.Kind) string {
	if isNumeric(k) {
		return "must be"
	}
	return "length must be"
}

func withUnit(err validator.FieldError) string {
	if isNumeric(err.Kind()) {
		return err.Param()
	}

	resource := "character"
	if err.Kind() == reflect.Slice {
		resource = "element"
	}
	if err.Param() != "1" {
		resource += "s"
	}
	return err.Param() + " " + resource
}
