package userstore

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"userdesk/internal/entity"

	"github.com/go-playground/validator/v10"
)

var isoDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
}

// IsISODate reports whether value parses as an ISO 8601 date or timestamp.
func IsISODate(value string) bool {
	trimmed := strings.TrimSpace(value)
	for _, layout := range isoDateLayouts {
		if _, err := time.Parse(layout, trimmed); err == nil {
			return true
		}
	}
	return false
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return IsISODate(fl.Field().String())
	})
	return v
}

func (s *Store) validateInput(input *entity.UserInput) error {
	if input == nil {
		return NewValidationError("User data is required", map[string]any{"field": "user"})
	}
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewValidationError("Invalid user data", map[string]any{"error": err.Error()})
	}
	fields := make([]string, 0, len(fieldErrs))
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
		messages = append(messages, describeFieldError(fe))
	}
	return NewValidationError(strings.Join(messages, "; "), map[string]any{"fields": fields})
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "isodate":
		return fmt.Sprintf("%s must be an ISO date", fe.Field())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag())
	}
}
