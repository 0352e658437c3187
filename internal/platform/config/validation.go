package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate reports fields by their koanf key, so messages name the key an
// operator actually sets.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}

		return name
	})

	return v
}()

// Validate checks field constraints and then the storefront rules that span
// several fields. The service must not start with invalid config.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	if problems := c.crossFieldProblems(); len(problems) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(problems, "\n  "))
	}

	return nil
}

func (c *Config) crossFieldProblems() []string {
	var problems []string

	if c.Storefront.CompactVisiblePages > c.Storefront.MaxVisiblePages {
		problems = append(problems, "storefront.compact_visible_pages must not exceed storefront.max_visible_pages")
	}

	if c.Storefront.SweepInterval > c.Storefront.SessionTTL {
		problems = append(problems, "storefront.sweep_interval must not exceed storefront.session_ttl")
	}

	if c.Server.RequestTimeout > c.Server.WriteTimeout {
		problems = append(problems, "server.request_timeout must not exceed server.write_timeout")
	}

	if c.Client.Retry.InitialInterval > c.Client.Retry.MaxInterval {
		problems = append(problems, "client.retry.initial_interval must not exceed client.retry.max_interval")
	}

	return problems
}

func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	lines := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		lines = append(lines, formatFieldError(e))
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}

func formatFieldError(e validator.FieldError) string {
	key := formatFieldPath(e.Namespace())
	field := fmt.Sprintf("%s (%s)", key, envName(key))

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
	case "url":
		return field + " must be a valid URL"
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, e.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

// formatFieldPath drops the root struct from a namespace such as
// "Config.storefront.items_per_page".
func formatFieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return rest
}

// envName is the variable that overrides key, the inverse of envKeyMapper.
func envName(key string) string {
	return envPrefix + strings.ToUpper(strings.NewReplacer(".", "_").Replace(key))
}
