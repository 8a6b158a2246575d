package nested

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by map operations. Errors that concern a specific
// position are wrapped with the offending key path.
var (
	// ErrInvalidDepth is returned by [NewBounded] for a depth below 1.
	ErrInvalidDepth = errors.New("depth must be at least 1")

	// ErrNotMap is returned when a key path runs through a leaf.
	ErrNotMap = errors.New("value is a leaf, not a map")

	// ErrEmptyPath is returned when an operation needs at least one key.
	ErrEmptyPath = errors.New("empty key path")

	// ErrLeafType is returned by [Map.Merge] for values that are neither a
	// nested map nor assignable to the leaf type.
	ErrLeafType = errors.New("value does not match leaf type")

	// ErrDepthExceeded is returned by [Map.Merge] when the source nests
	// deeper than a bounded map allows.
	ErrDepthExceeded = errors.New("nesting exceeds map depth")
)

func pathError[K comparable](path []K, err error) error {
	return fmt.Errorf("path %s: %w", FormatPath(path), err)
}

// FormatPath renders a key path as dot-separated keys, e.g. "a.b.c".
func FormatPath[K comparable](path []K) string {
	parts := make([]string, len(path))
	for i, k := range path {
		parts[i] = fmt.Sprint(k)
	}
	return strings.Join(parts, ".")
}
