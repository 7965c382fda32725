// Package validate wraps go-playground/validator with the tags used for
// credential and PIN input.
//
// Besides the stock tags it registers "digits": every rune must be an ASCII
// digit. The stock "numeric" tag accepts signs and decimals, which is wrong
// for PINs and one-time codes.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	if err := val.RegisterValidation("digits", isDigits); err != nil {
		panic(err)
	}
	return val
}

func isDigits(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Struct validates s using its validate tags.
func Struct(s any) error {
	return humanize(v.Struct(s))
}

// Var validates a single value against tag, e.g. Var(pin, "len=4,digits").
func Var(field any, tag string) error {
	return humanize(v.Var(field, tag))
}

func humanize(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	if field == "" {
		field = "value"
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "e164":
		return field + " must be a phone number in international format"
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "digits":
		return field + " must contain digits only"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
