package dto

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/quote-service/internal/domain"
)

// tagParts is the number of parts when splitting a struct tag by comma.
// The first part is the field name, subsequent parts are options like "omitempty".
const tagParts = 2

// ErrBinding indicates query binding failed.
var ErrBinding = errors.New("binding failed")

var (
	// validate is the singleton validator instance.
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldErrors maps request field names to human-readable messages.
// It satisfies errors.Is(err, domain.ErrValidation).
type FieldErrors map[string]string

// Error lists the failing fields in a stable order.
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}

	return "invalid request: " + strings.Join(parts, "; ")
}

// Unwrap returns the domain validation sentinel.
func (fe FieldErrors) Unwrap() error {
	return domain.ErrValidation
}

// Validator returns the singleton validator instance.
// Field names in errors come from the form tag, falling back to json.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"form", "json"} {
				name := strings.SplitN(fld.Tag.Get(key), ",", tagParts)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}

			return ""
		})
	})

	return validate
}

// Validate validates a struct using the validator instance.
// Returns nil if valid, or FieldErrors describing every failing field.
func Validate(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	if fields := ValidationErrors(err); len(fields) > 0 {
		return fields
	}

	return fmt.Errorf("%w: %w", domain.ErrValidation, err)
}

// BindQuery binds query parameters without validating them.
// A parameter that cannot be converted to its field type is reported
// as a FieldErrors entry for that parameter.
func BindQuery(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return bindingError(c, v, err)
	}

	return nil
}

// BindQueryAndValidate binds query parameters and validates.
func BindQueryAndValidate(c *gin.Context, v any) error {
	if err := BindQuery(c, v); err != nil {
		return err
	}

	return Validate(v)
}

// ValidationErrors extracts field-level error messages from a validator error.
func ValidationErrors(err error) FieldErrors {
	fieldErrors := make(FieldErrors)

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			fieldErrors[fieldErr.Field()] = validationMessage(fieldErr)
		}
	}

	return fieldErrors
}

// IsValidationError checks if the error is a validator error.
func IsValidationError(err error) bool {
	var validationErrs validator.ValidationErrors
	return errors.As(err, &validationErrs)
}

// bindingError finds the first query parameter whose value did not convert.
// gin's binding error does not name the field, so each integer-typed field
// is re-checked against the raw query value.
func bindingError(c *gin.Context, v any, err error) error {
	rt := reflect.TypeOf(v)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if rt.Kind() == reflect.Struct {
		for i := range rt.NumField() {
			fld := rt.Field(i)
			name := strings.SplitN(fld.Tag.Get("form"), ",", tagParts)[0]
			if name == "" || name == "-" {
				continue
			}

			kind := fld.Type.Kind()
			if kind == reflect.Pointer {
				kind = fld.Type.Elem().Kind()
			}
			if kind != reflect.Int {
				continue
			}

			if raw, ok := c.GetQuery(name); ok && !isInteger(raw) {
				return FieldErrors{name: "must be an integer"}
			}
		}
	}

	return fmt.Errorf("%w: %w: %w", domain.ErrValidation, ErrBinding, err)
}

func isInteger(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// validationMessages maps validation tags to message templates.
// Use {param} as placeholder for the validation parameter.
var validationMessages = map[string]string{
	"required": "this field is required",
	"gte":      "must be greater than or equal to {param}",
	"lte":      "must be less than or equal to {param}",
	"oneof":    "must be one of: {param}",
}

// validationMessage returns a human-readable message for a validation error.
func validationMessage(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	if tag == "min" || tag == "max" {
		return minMaxMessage(tag, param, fe.Kind())
	}

	if msg, ok := validationMessages[tag]; ok {
		return strings.ReplaceAll(msg, "{param}", param)
	}

	return "failed validation: " + tag
}

// minMaxMessage returns the appropriate message for min/max validation.
func minMaxMessage(tag, param string, kind reflect.Kind) string {
	suffix := ""
	if kind == reflect.String {
		suffix = " characters"
	}

	if tag == "min" {
		return "must be at least " + param + suffix
	}

	return "must be at most " + param + suffix
}
