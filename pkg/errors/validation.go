package errors

import (
	"slices"
	"strings"
	"unicode"
)

// maxPathLength bounds document paths accepted from the command line.
const maxPathLength = 4096

// ValidateDocumentPath validates a document path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateDocumentPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateFormat checks that format is one of allowed (case-insensitive).
func ValidateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, strings.ToLower(format)) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}

// ValidateStyleName validates a style or theme name. Names are simple
// identifiers: letters, digits, '-', '_' and '.'.
func ValidateStyleName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "style name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidConfig, "style name too long (max 64 characters)")
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("-_.", r) {
			return New(ErrCodeInvalidConfig, "style name contains invalid character %q", r)
		}
	}
	return nil
}
