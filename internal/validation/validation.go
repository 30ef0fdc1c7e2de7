// Package validation contains the logic for validating submitted venue,
// artist and show forms.
//
// Rules are declared as `validate` struct tags and enforced by the
// validator library.  Failures are reported as Errors, a list of
// field/message pairs with human readable field names.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldError is a single validation issue for a specific form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the list of field errors of a rejected form.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+" "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report the form field name instead of the Go field name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("us_state", func(fl validator.FieldLevel) bool {
		_, ok := stateSet[fl.Field().String()]
		return ok
	})
	_ = v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
		_, ok := genreSet[fl.Field().String()]
		return ok
	})
	return v
}

// check validates s and converts validator failures into Errors.
func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: humanize(fe.Field()), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", fe.Param())
	case "url":
		return "must be a valid URL"
	case "number":
		return "must be a number"
	case "us_state":
		return "must be a US state code"
	case "genre":
		return fmt.Sprintf("has an unknown genre %q", fe.Value())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
		}
		return "failed " + fe.Tag()
	}
}

// humanize turns "seeking_description" or "genres[2]" into "Seeking Description"
// or "Genres".
func humanize(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	return cases.Title(language.English).String(strings.ReplaceAll(field, "_", " "))
}
