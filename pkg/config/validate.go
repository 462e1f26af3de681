package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is matched by every configuration error returned by Validate.
var ErrInvalid = errors.New("config: invalid configuration")

// Issue is a single configuration problem.
type Issue struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return i.Field + ": " + i.Message
}

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("config: invalid configuration: %s", strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrInvalid.
func (e *ValidationError) Unwrap() error { return ErrInvalid }

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
		validate = v
	})
	return validate
}

// Validate checks c and returns a *ValidationError carrying every issue, or
// nil when the configuration is usable.
func Validate(c Config) error {
	var issues []Issue

	if err := structValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		for _, fe := range fieldErrs {
			issues = append(issues, Issue{Field: fieldPath(fe), Message: describe(fe)})
		}
	}

	issues = append(issues, crossFieldIssues(c)...)
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

func crossFieldIssues(c Config) []Issue {
	var issues []Issue
	add := func(field, format string, args ...any) {
		issues = append(issues, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.MinItems > c.MaxItems {
		add("max_items", "must be at least min_items (%d), got %d", c.MinItems, c.MaxItems)
	}
	if c.MinQuantity > c.MaxQuantity {
		add("max_quantity", "must be at least min_quantity (%d), got %d", c.MinQuantity, c.MaxQuantity)
	}
	if c.StockMin > c.StockMax {
		add("stock_max", "must be at least stock_min (%d), got %d", c.StockMin, c.StockMax)
	}
	if c.PriceMin.IsNegative() {
		add("price_min", "must not be negative, got %s", c.PriceMin.StringFixed(2))
	}
	if c.PriceMin.GreaterThan(c.PriceMax) {
		add("price_max", "must be at least price_min (%s), got %s", c.PriceMin.StringFixed(2), c.PriceMax.StringFixed(2))
	}
	if c.Orders > 0 && c.Users == 0 {
		add("users", "must be positive when orders are generated")
	}
	if c.Orders > 0 && c.Products == 0 {
		add("products", "must be positive when orders are generated")
	}
	if c.Output.SQLDir != "" && c.Output.SQLDir == c.Output.RedisDir {
		add("output.redis_dir", "must differ from output.sql_dir")
	}
	return issues
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.IndexByte(ns, '.'); idx >= 0 {
		ns = ns[idx+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s, got %v", fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("must contain at least %s entries", fe.Param())
	case "hostname_rfc1123":
		return fmt.Sprintf("must be a host name, got %q", fe.Value())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
