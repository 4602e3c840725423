// Package validation wraps go-playground/validator with the registry's
// custom tags and turns the first failure into a CodeValidation error.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	id "locreg/pkg/domain"
	dErrors "locreg/pkg/domain-errors"
	s "locreg/pkg/platform/strings"
)

const fallbackMessage = "invalid request body"

// parses reports whether a tagged field parses as the given identifier kind.
func parses[T any](parse func(string) (T, error)) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := parse(fl.Field().String())
		return err == nil
	}
}

var customTags = map[string]validator.Func{
	"notblank": func(fl validator.FieldLevel) bool { return strings.TrimSpace(fl.Field().String()) != "" },
	"account":  parses(id.ParseAccountID),
	"locid":    parses(id.ParseLocID),
	"hex32":    parses(id.ParseHash),
}

// messages render a field failure; %[1]s is the field, %[2]s the tag param.
var messages = map[string]string{
	"required": "%[1]s is required",
	"min":      "%[1]s must be at least %[2]s",
	"max":      "%[1]s must be at most %[2]s",
	"notblank": "%[1]s must not be blank",
	"account":  "%[1]s must be an account address",
	"locid":    "%[1]s must be a LOC id",
	"hex32":    "%[1]s must be a 32-byte hex string",
}

var engine = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	for tag, fn := range customTags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validator: %v", tag, err))
		}
	}
	return v
}()

func Validate(req any) error {
	if err := engine.Struct(req); err != nil {
		return dErrors.New(dErrors.CodeValidation, ErrorMessage(err))
	}
	return nil
}

// ErrorMessage describes the first field failure in err using the field's
// snake_case name.
func ErrorMessage(err error) string {
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) || len(failures) == 0 {
		return fallbackMessage
	}
	first := failures[0]

	name := first.Field()
	if name == "" {
		name = first.StructField()
	}
	field := s.SnakeCase(name)

	if format, ok := messages[first.ActualTag()]; ok {
		return fmt.Sprintf(format, field, first.Param())
	}
	if field == "" {
		return fallbackMessage
	}
	return field + " is invalid"
}
