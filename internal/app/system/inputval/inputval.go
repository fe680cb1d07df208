// Package inputval provides request input validation using
// github.com/go-playground/validator.
//
// Define an input struct with validate tags, populate it from the decoded
// request body (already trimmed), and call Check to get the first problem as
// an *apperr.Error. Required-field problems are always reported before email
// format problems, in struct field order.
//
// Example:
//
//	type feedbackInput struct {
//	    Email       string `json:"email" validate:"required,signupemail"`
//	    Frustration string `json:"frustration" validate:"required"`
//	}
//
//	if err := inputval.Check(in); err != nil {
//	    jsonutil.Fail(w, err)
//	    return
//	}
package inputval

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/dalemusser/stratalaunch/internal/app/system/apperr"
	"github.com/go-playground/validator/v10"
)

// RuleEmail is the tag for the sign-up email shape check.
const RuleEmail = "signupemail"

// emailPattern is the minimal local@domain.tld shape. It is deliberately not
// RFC 5322 and performs no DNS lookup.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Result holds validation results with user-facing messages.
type Result struct {
	Errors []FieldError
}

// FieldError represents a validation error for a single field.
type FieldError struct {
	Field   string // JSON name of the field
	Rule    string
	Message string
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first error message, or empty string if no errors.
func (r *Result) First() string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return ""
}

var (
	customValidator *validator.Validate
	validatorOnce   sync.Once
)

// getValidator returns the singleton validator with custom rules.
func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report JSON names so messages match the request payload.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation(RuleEmail, func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})

		customValidator = v
	})
	return customValidator
}

// Validate validates a struct and returns every failing field in struct order.
func Validate(s any) *Result {
	result := &Result{}

	err := getValidator().Struct(s)
	if err == nil {
		return result
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		result.Errors = append(result.Errors, FieldError{Rule: "invalid", Message: "Invalid input."})
		return result
	}

	for _, fe := range verrs {
		result.Errors = append(result.Errors, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: formatMessage(fe.Field(), fe.Tag()),
		})
	}
	return result
}

// Check validates s and returns the first problem as an *apperr.Error, or nil.
// Any missing required field wins over an invalid email.
func Check(s any) error {
	res := Validate(s)
	if !res.HasErrors() {
		return nil
	}

	for _, fe := range res.Errors {
		if fe.Rule == "required" {
			return apperr.MissingField(fe.Field)
		}
	}
	for _, fe := range res.Errors {
		if fe.Rule == RuleEmail {
			return apperr.InvalidEmail()
		}
	}
	return apperr.InvalidPayload(res.First(), nil)
}

func formatMessage(field, rule string) string {
	switch rule {
	case "required":
		return field + " is required"
	case RuleEmail:
		return "Invalid email format"
	default:
		return field + " is invalid"
	}
}

// IsValidEmail reports whether s has the shape local@domain.tld: at least one
// non-space, non-@ character before the @, at least one before the final dot,
// and at least one after it.
//
// RE2's \s is ASCII-only, so any Unicode space (vertical tab, NBSP, em space,
// NEL) is rejected before the pattern runs.
func IsValidEmail(s string) bool {
	if s == "" || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false
	}
	return emailPattern.MatchString(s)
}
