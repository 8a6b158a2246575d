package errors

import (
	"strings"
	"unicode"
)

// maxKeyPathLength bounds a single key path in characters.
const maxKeyPathLength = 4096

// ValidateSeparator checks a field or key-path separator.
// Separators must be non-empty and must not contain newlines, since input is
// read line by line.
func ValidateSeparator(sep string) error {
	if sep == "" {
		return New(ErrCodeInvalidSeparator, "separator cannot be empty")
	}
	if strings.ContainsAny(sep, "\r\n") {
		return New(ErrCodeInvalidSeparator, "separator cannot contain newlines")
	}
	return nil
}

// ValidateKeyPath checks the raw key path of a paths-format line before it
// is split into keys. Segment rules (empty or quoted keys) are left to the
// parser, which knows the separator.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No control characters other than tab
func ValidateKeyPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidKeyPath, "key path cannot be empty")
	}
	if len(path) > maxKeyPathLength {
		return New(ErrCodeInvalidKeyPath, "key path too long (max %d characters)", maxKeyPathLength)
	}
	for _, r := range path {
		if unicode.IsControl(r) && r != '\t' {
			return New(ErrCodeInvalidKeyPath, "key path contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates an input or output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateDepth checks a bounded-map depth given on the command line.
// Zero is accepted and means unbounded.
func ValidateDepth(depth int) error {
	if depth < 0 {
		return New(ErrCodeInvalidDepth, "depth cannot be negative, got %d", depth)
	}
	return nil
}
