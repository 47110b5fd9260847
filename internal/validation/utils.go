package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/deppfellow/perftracker/internal/errs"
)

// validate is shared: validator caches struct metadata per type.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their column name ("job_title", not "JobTitle"),
	// which is also what the shell prompts show.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("db"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})

	// notblank rejects "" and whitespace-only strings; plain required
	// would let "   " through.
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("registering notblank validation: %v", err))
	}
	if err := v.RegisterValidation("finite", isFinite); err != nil {
		panic(fmt.Sprintf("registering finite validation: %v", err))
	}
	return v
}

// isFinite rejects NaN and the infinities. SQLite stores NaN as NULL,
// which would then trip the NOT NULL constraint with a confusing message.
func isFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}

// Struct validates record against its `validate` tags.
//
// It returns nil or a bad-input *errs.Error carrying one FieldError per
// offending field.
func Struct(record any) error {
	if err := validate.Struct(record); err != nil {
		msg, fieldErrors := extractValidationError(err)
		if fieldErrors == nil {
			return errs.ValidationError(err)
		}
		return errs.NewBadRequestError(msg, nil, fieldErrors)
	}
	return nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error(), nil
	}

	for _, fe := range validationErrors {
		var msg string

		switch fe.Tag() {
		case "required", "notblank":
			msg = "is required"

		case "finite":
			msg = "must be a finite number"

		case "gt":
			msg = fmt.Sprintf("must be greater than %s", fe.Param())

		case "min":
			if fe.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", fe.Param())
			}

		case "max":
			if fe.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", fe.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", fe.Param())

		default:
			if fe.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", fe.Field(), fe.Tag(), fe.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", fe.Field(), fe.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: fe.Field(),
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
