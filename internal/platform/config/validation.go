package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their koanf keys, so errors name the same
// paths used in configs/*.yaml and APP_ variables.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}

		return name
	})

	v.RegisterStructValidation(validateServer, ServerConfig{})
	v.RegisterStructValidation(validateRetry, RetryConfig{})
	v.RegisterStructValidation(validateRateLimit, RateLimitConfig{})

	return v
}

// Validate checks the configuration. The service refuses to start on error.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	return nil
}

// A request deadline longer than the write timeout would let the server
// cut the connection before the handler gives up.
func validateServer(sl validator.StructLevel) {
	s, _ := sl.Current().Interface().(ServerConfig)
	if s.WriteTimeout > 0 && s.RequestTimeout > s.WriteTimeout {
		sl.ReportError(s.RequestTimeout, "request_timeout", "RequestTimeout", "ltewrite", "write_timeout")
	}
}

func validateRetry(sl validator.StructLevel) {
	r, _ := sl.Current().Interface().(RetryConfig)
	if r.InitialInterval > 0 && r.MaxInterval > 0 && r.MaxInterval < r.InitialInterval {
		sl.ReportError(r.MaxInterval, "max_interval", "MaxInterval", "gtefield", "initial_interval")
	}
}

// Each longer window must admit at least as much as the shorter one.
func validateRateLimit(sl validator.StructLevel) {
	rl, _ := sl.Current().Interface().(RateLimitConfig)
	if !rl.Enabled {
		return
	}

	if rl.PerMinute > 0 && rl.PerHour > 0 && rl.PerHour < rl.PerMinute {
		sl.ReportError(rl.PerHour, "per_hour", "PerHour", "gtefield", "per_minute")
	}

	if rl.PerHour > 0 && rl.PerDay > 0 && rl.PerDay < rl.PerHour {
		sl.ReportError(rl.PerDay, "per_day", "PerDay", "gtefield", "per_hour")
	}
}

func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(msgs, "\n  "))
}

func formatFieldError(e validator.FieldError) string {
	field := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "file":
		return field + " must be an existing file"
	case "cidr|ip":
		return field + " must be an IP address or CIDR"
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", field, e.Param())
	case "ltewrite":
		return fmt.Sprintf("%s must not exceed %s", field, e.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

// formatFieldPath drops the root struct from "Config.server.read_timeout".
func formatFieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return path
}
