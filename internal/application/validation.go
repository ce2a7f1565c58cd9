package application

import (
	"fmt"
	"path/filepath"
	"strings"

	"picqer/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		// Format field name with spaces for error message (e.g., "saveDir" -> "save directory")
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "saveDir" -> "save directory")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"saveDir":     "save directory",
		"counterName": "counter name",
		"imagePath":   "image path",
		"name":        "name",
		"text":        "text",
		"query":       "query",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	// Fallback: just return the field name as-is
	return fieldName
}

// ValidateFilename checks a rendered filename before anything is written.
// The name must produce a file directly inside the save directory.
func ValidateFilename(name string) error {
	base := strings.TrimSuffix(strings.ToLower(name), domain.Extension)
	switch {
	case strings.TrimSpace(base) == "":
		return &ValidationError{
			Field:   "filename",
			Message: fmt.Sprintf("pattern renders an empty name: %q", name),
		}
	case strings.ContainsAny(name, `/\`) || name != filepath.Base(name):
		return &ValidationError{
			Field:   "filename",
			Message: fmt.Sprintf("filename must not contain path separators: %q", name),
		}
	}
	return nil
}
