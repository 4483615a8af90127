// Package validation checks incoming DTOs and reports every problem it finds as field errors.
//
// The checks run in a fixed order: the title/description cross-check first, then the struct
// tag rules. Nothing here touches storage, so handlers call it before any repository work.
package validation

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"library/internal/types"
)

const (
	KeyBookForCreation = "bookForCreation"
	KeyBookForUpdate   = "bookForUpdate"

	MsgDescriptionEqualsTitle = "The description should be different from the title."
)

var (
	dateRE = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)

	validate = newValidate()
)

// Errors maps a field (JSON name, or DTO key for cross-field rules) to its messages.
type Errors map[string][]string

func (e Errors) Add(key, message string) {
	e[key] = append(e[key], message)
}

func (e Errors) Valid() bool {
	return len(e) == 0
}

func (e Errors) Merge(other Errors) {
	for k, msgs := range other {
		e[k] = append(e[k], msgs...)
	}
}

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || dateRE.MatchString(value)
	})

	return v
}

// CheckTitleDescription adds the cross-field error under key when both strings are equal.
func CheckTitleDescription(errs Errors, key, title, description string) {
	if title == description {
		errs.Add(key, MsgDescriptionEqualsTitle)
	}
}

func ValidateBookForCreation(dto *types.BookForCreation) Errors {
	errs := Errors{}
	CheckTitleDescription(errs, KeyBookForCreation, dto.Title, dto.Description)
	errs.Merge(Struct(dto))
	return errs
}

func ValidateBookForUpdate(dto *types.BookForUpdate) Errors {
	errs := Errors{}
	CheckTitleDescription(errs, KeyBookForUpdate, dto.Title, dto.Description)
	errs.Merge(Struct(dto))
	return errs
}

// ValidateAuthorForCreation applies the book cross-check to every nested book, keyed by its
// position in the payload.
func ValidateAuthorForCreation(dto *types.AuthorForCreation) Errors {
	errs := Errors{}
	for i, b := range dto.Books {
		CheckTitleDescription(errs, "books["+strconv.Itoa(i)+"]", b.Title, b.Description)
	}
	errs.Merge(Struct(dto))
	return errs
}

// Struct runs the struct tag rules only.
func Struct(s any) Errors {
	errs := Errors{}

	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add("", err.Error())
		return errs
	}

	for _, fe := range fieldErrs {
		errs.Add(fieldKey(fe), formatValidationError(fe))
	}

	return errs
}

// fieldKey drops the leading struct type name from the namespace,
// e.g. AuthorForCreation.books[0].title -> books[0].title
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if ix := strings.IndexByte(ns, '.'); ix >= 0 {
		return ns[ix+1:]
	}
	return fe.Field()
}
