package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// EmailRegex is a simple email validation regex
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// ValidateStruct validates a struct using its tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationErrors converts validation errors to a field->message map
func FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return out
	}

	for _, e := range validationErrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", e.Field())
		case "email":
			out[field] = "Invalid email format"
		case "min":
			out[field] = fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
		case "max":
			out[field] = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
		case "gte":
			out[field] = fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
		case "lte":
			out[field] = fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
		case "oneof":
			out[field] = fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
		default:
			out[field] = fmt.Sprintf("%s is invalid", e.Field())
		}
	}
	return out
}

// ValidateEmail checks email shape and length
func ValidateEmail(email string) bool {
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	return EmailRegex.MatchString(email)
}

// ValidateUsername checks length and allowed characters
func ValidateUsername(username string) (bool, string) {
	if len(username) < 3 {
		return false, "Username must be at least 3 characters"
	}
	if len(username) > 30 {
		return false, "Username must be at most 30 characters"
	}
	if !usernameRegex.MatchString(username) {
		return false, "Username can only contain letters, numbers, underscores, and hyphens"
	}
	return true, ""
}

// SanitizeString removes null bytes and trims whitespace
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}
