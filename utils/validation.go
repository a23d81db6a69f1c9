package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var dateOnlyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValidDateOnly reports whether the string is a YYYY-MM-DD date.
func IsValidDateOnly(date string) bool {
	return dateOnlyPattern.MatchString(date)
}

// SanitizeValidationError takes a validator error and returns a user-friendly
// message without leaking internal Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Corps de requête invalide."
	}

	var messages []string
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("le champ %s est obligatoire", field))
		case "email":
			messages = append(messages, fmt.Sprintf("le champ %s doit être une adresse email valide", field))
		case "min":
			messages = append(messages, fmt.Sprintf("le champ %s doit contenir au moins %s caractères", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("le champ %s doit contenir au plus %s caractères", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("le champ %s est invalide", field))
		}
	}

	if len(messages) == 0 {
		return "Corps de requête invalide."
	}

	return strings.Join(messages, "; ")
}
