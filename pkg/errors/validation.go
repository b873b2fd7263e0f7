package errors

import (
	"strings"
	"unicode"
)

// ValidateDashboardName validates a display name for a dashboard.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
//
// The remote platform applies its own rules on top; this catches the
// obviously broken inputs before any network call is made.
func ValidateDashboardName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "dashboard name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "dashboard name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "dashboard name contains invalid control characters")
		}
	}

	return nil
}

// ValidateDatasetName validates a dataset identifier used in widget queries.
// Dataset names are embedded verbatim in the serialized dashboard, so they
// must be simple identifiers without quoting or traversal characters.
func ValidateDatasetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "dataset name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "dataset name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "dataset name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
		"`",    // Backtick breaks quoted SQL expressions
		"'",    // Quote breaks serialized JSON embedded in SQL
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "dataset name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateParentPath validates the workspace path under which dashboards are
// created. It prevents path traversal and ensures an absolute workspace path.
//
// Validation rules:
//   - Path cannot be empty
//   - Must be absolute (start with /)
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateParentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "parent path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "parent path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "parent path contains invalid characters")
		}
	}

	if !strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidInput, "parent path must be absolute (start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "parent path cannot contain path traversal sequences")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidInput, "parent path cannot contain backslashes")
	}

	return nil
}

// ValidatePrompt validates a natural-language dashboard request before it is
// sent to the generation service.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return New(ErrCodeInvalidPrompt, "prompt cannot be empty")
	}

	const maxPromptLength = 4000
	if len(prompt) > maxPromptLength {
		return New(ErrCodeInvalidPrompt, "prompt too long (max %d characters)", maxPromptLength)
	}

	return nil
}
