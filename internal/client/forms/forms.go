// Package forms validates user input before anything is sent to the API.
// A form that fails validation yields a *ValidationError listing every
// violated rule, in field order.
package forms

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	otpRe   = regexp.MustCompile(`^[0-9]{6}$`)
)

// v is initialised once; custom rules are registered before first use.
var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	must := func(tag string, fn validator.Func) {
		if err := val.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	must("emailfmt", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})
	must("otp", func(fl validator.FieldLevel) bool {
		return otpRe.MatchString(fl.Field().String())
	})
	must("personname", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= 2
	})

	return val
}

// FieldError is one violated rule.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

var messages = map[string]string{
	"email.required":           "Email is required",
	"email.emailfmt":           "Please enter a valid email address",
	"password.required":        "Password is required",
	"password.min":             "Password must be at least %s characters long",
	"firstName.required":       "First name is required",
	"firstName.personname":     "First name must be at least 2 characters",
	"lastName.required":        "Last name is required",
	"lastName.personname":      "Last name must be at least 2 characters",
	"otpCode.required":         "Please enter the 6-digit verification code",
	"otpCode.otp":              "Please enter a valid 6-digit verification code",
	"newPassword.required":     "New password is required",
	"newPassword.min":          "Password must be at least %s characters long",
	"confirmPassword.required": "Please confirm your password",
	"confirmPassword.eqfield":  "Passwords do not match",
}

func message(fe validator.FieldError) string {
	key := fe.Field() + "." + fe.Tag()
	if m, ok := messages[key]; ok {
		if strings.Contains(m, "%s") {
			return strings.Replace(m, "%s", fe.Param(), 1)
		}
		return m
	}
	return fe.Field() + " is invalid"
}

// Validate checks s against its validate tags.
func Validate(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(ve))}
	for _, fe := range ve {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag(), Message: message(fe)})
	}
	return out
}
