package dto

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BindingErrorMessage converts a form binding failure into the message shown
// to the user. Field-level validation errors name the offending fields; any
// other failure falls back to the caller's generic message.
func BindingErrorMessage(err error, fallback string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fallback
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "email" {
			return "A valid email address is required!"
		}
		fields = append(fields, strings.ToLower(fe.Field()))
	}

	switch len(fields) {
	case 0:
		return fallback
	case 1:
		return capitalize(fields[0]) + " is required!"
	default:
		head := strings.Join(fields[:len(fields)-1], ", ")
		return capitalize(head) + " and " + fields[len(fields)-1] + " are required!"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
