// Package validation runs struct-tag validation on request DTOs and turns
// failures into a single CodeValidation error with one entry per field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	dErrors "escriba/pkg/domain-errors"
)

// InvalidRequestMessage is the top-level message for validation failures.
const InvalidRequestMessage = "one or more fields are invalid"

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the process-wide validator, registering the custom
// "notblank" tag and JSON field naming on first use.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			field := fl.Field()
			if field.Kind() != reflect.String {
				return true
			}
			return strings.TrimSpace(field.String()) != ""
		})
		instance = v
	})
	return instance
}

// Messages lets a DTO override the message for a field/tag pair. Keys are
// "field.tag", e.g. "atribuicoesIds.min".
type Messages map[string]string

// Struct validates v and returns nil or a CodeValidation error.
func Struct(v any, overrides Messages) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request")
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s: %s", fe.Field(), message(fe, overrides)))
	}
	return dErrors.Validation(InvalidRequestMessage, fields...)
}

func message(fe validator.FieldError, overrides Messages) string {
	if msg, ok := overrides[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s elements", fe.Param())
		}
		return fmt.Sprintf("must have at most %s characters", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at least %s elements", fe.Param())
		}
		return fmt.Sprintf("must have at least %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
