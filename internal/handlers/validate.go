package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"fotods/internal/slug"
)

// validate is shared by all handlers.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slug.Valid(fl.Field().String())
	})
	return v
}

// fieldError is the first violation found in a request body.
type fieldError struct {
	Field   string
	Message string
}

func (e *fieldError) Error() string { return e.Message }

// check validates req, skipping the named Go fields, and returns the first
// violation or nil.
func check(req any, except ...string) *fieldError {
	var err error
	if len(except) > 0 {
		err = validate.StructExcept(req, except...)
	} else {
		err = validate.Struct(req)
	}
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &fieldError{Message: err.Error()}
	}
	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	return &fieldError{Field: field, Message: describe(field, fe)}
}

// validRequest validates req and writes a 400 for the first violation.
func validRequest(w http.ResponseWriter, req any, except ...string) bool {
	if fe := check(req, except...); fe != nil {
		writeFieldError(w, fe.Field, fe.Message)
		return false
	}
	return true
}

// describe turns a validator tag failure into a human-readable message.
func describe(field string, fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "url", "http_url":
		return field + " must be a valid URL"
	case "slug":
		return field + " may only contain lowercase letters, digits and single hyphens"
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
