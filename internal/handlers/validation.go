package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var fieldLabels = map[string]string{
	"GitHubURL":         "github_url",
	"ResumeTemplate":    "resume_template",
	"PortfolioTemplate": "portfolio_template",
}

// formatValidationErrors flattens validator errors into one message per field.
func formatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatFieldError(e))
	}
	return messages
}

func formatFieldError(e validator.FieldError) string {
	label := fieldLabel(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s", label, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", label, e.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

func fieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return strings.ToLower(field)
}
