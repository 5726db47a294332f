package errors

import (
	"strings"
	"unicode"
)

// ValidateComponentName validates a component name for safety and
// correctness before it is used as a geometry-table key or cache-key
// component.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateComponentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidShape, "component name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidShape, "component name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidShape, "component name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidShape, "component name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateLayer validates a mask layer number. GDS layer numbers are
// small non-negative integers; anything outside that range indicates a
// corrupted shape record rather than an exotic process stack.
func ValidateLayer(layer int) error {
	const maxLayer = 255
	if layer < 0 {
		return New(ErrCodeInvalidLayer, "layer cannot be negative, got %d", layer)
	}
	if layer > maxLayer {
		return New(ErrCodeInvalidLayer, "layer %d exceeds maximum %d", layer, maxLayer)
	}
	return nil
}
