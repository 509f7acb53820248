package service

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/cadet-admin-api/pkg/errors"
)

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// invalid turns a validator failure into a 400 naming the first offending field.
func invalid(err error, fallback string) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fallback)
	}
	fe := fieldErrs[0]
	var message string
	switch fe.Tag() {
	case "required":
		message = fmt.Sprintf("%s is required", fe.Field())
	case "email":
		message = fmt.Sprintf("%s must be a valid email", fe.Field())
	case "min":
		message = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		message = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		message = fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		message = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

// badRequest builds a 400 with a fixed message.
func badRequest(message string) error {
	return appErrors.Clone(appErrors.ErrValidation, message)
}

// lookupFailed maps a repository lookup error to 404 or 500.
func lookupFailed(err error, notFound, failed string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Internal(err, failed)
}

// writeFailed maps a write error. A foreign key violation means a referenced
// row is missing.
func writeFailed(err error, missingRef, failed string) error {
	if appErrors.IsForeignKeyViolation(err) {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, missingRef)
	}
	return appErrors.Internal(err, failed)
}

// deleteFailed maps a delete error. A foreign key violation means other rows
// still reference the target.
func deleteFailed(err error, entity, failed string) error {
	if appErrors.IsForeignKeyViolation(err) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, entity+" has dependent records")
	}
	return appErrors.Internal(err, failed)
}

// optional trims s and maps blanks to nil so they are stored as NULL.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
