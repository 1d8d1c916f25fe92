package handler

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kavacham/backend/internal/service"
)

// emailShape accepts local@domain.tld with no whitespace and a single @.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	mustRegister(v, "emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	// wholenumber=N accepts a decimal integer in [0, N].
	mustRegister(v, "wholenumber", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n >= 0 && n <= limit
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("register validation " + tag + ": " + err.Error())
	}
}

// validateStruct runs the struct tags on req and reports the first failure
// as a ValidationError.
func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &service.ValidationError{Code: "invalid_request", Message: "Invalid request."}
	}
	return fieldError(fieldErrs[0])
}

func fieldError(fe validator.FieldError) *service.ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return &service.ValidationError{
			Field:   field,
			Code:    field + "_required",
			Message: "Missing required field: " + field + ".",
		}
	case "emailshape":
		return &service.ValidationError{
			Field:   field,
			Code:    "invalid_" + field,
			Message: "Please provide a valid email address for " + field + ".",
		}
	case "max":
		return &service.ValidationError{
			Field:   field,
			Code:    field + "_too_long",
			Message: "Field " + field + " must be at most " + fe.Param() + " characters.",
		}
	case "wholenumber":
		return &service.ValidationError{
			Field:   field,
			Code:    "invalid_" + field,
			Message: "Field " + field + " must be a whole number from 0 to " + fe.Param() + ".",
		}
	case "min", "gte":
		return &service.ValidationError{
			Field:   field,
			Code:    "invalid_" + field,
			Message: "Field " + field + " must be at least " + fe.Param() + ".",
		}
	default:
		return &service.ValidationError{
			Field:   field,
			Code:    "invalid_" + field,
			Message: "Invalid value for " + field + ".",
		}
	}
}
