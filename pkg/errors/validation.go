package errors

import (
	"strings"
	"unicode"
)

// maxKeyLength bounds definition keys. Keys are echoed into markup attributes
// and cache keys, so they stay short.
const maxKeyLength = 256

// ValidateDefinitionKey validates the stable key of a style definition.
//
// The rules are intentionally conservative:
//   - No empty keys
//   - No control characters or whitespace
//   - No quotes or angle brackets (keys are written into markup attributes)
//   - Maximum length of 256 characters
func ValidateDefinitionKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "definition key cannot be empty")
	}
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidInput, "definition key too long (max %d characters)", maxKeyLength)
	}
	for _, r := range key {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "definition key %q contains whitespace or control characters", key)
		}
	}
	if i := strings.IndexAny(key, "\"'<>&`"); i >= 0 {
		return New(ErrCodeInvalidInput, "definition key contains invalid character: %q", key[i:i+1])
	}
	return nil
}

// ValidatePropName validates a prop name used by dynamic declarations.
// Prop names must be identifiers so they can be addressed from templates.
func ValidatePropName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "prop name cannot be empty")
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return New(ErrCodeInvalidInput, "prop name %q must be an identifier", name)
	}
	return nil
}
