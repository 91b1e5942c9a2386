package apimodels

import (
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const DateLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct checks the validate tags and returns a validation error naming the first bad field.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return apperrors.Validation("invalid request: %v", err)
	}
	fe := fieldErrors[0]
	field := toSnake(fe.Field())
	switch fe.Tag() {
	case "required":
		return apperrors.Validation("%v is required", field)
	case "email":
		return apperrors.Validation("%v must be a valid email", field)
	case "datetime":
		return apperrors.Validation("%v must be a date in YYYY-MM-DD format", field)
	case "oneof":
		return apperrors.Validation("%v must be one of: %v", field, fe.Param())
	case "max":
		return apperrors.Validation("%v is too long", field)
	}
	return apperrors.Validation("%v is invalid", field)
}

// ParseDate parses an optional YYYY-MM-DD value.
func ParseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, apperrors.Validation("%v must be a date in YYYY-MM-DD format", field)
	}
	return &t, nil
}

func FormatDate(t time.Time, ok bool) string {
	if !ok {
		return ""
	}
	return t.Format(DateLayout)
}

func toSnake(name string) string {
	var sb strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
