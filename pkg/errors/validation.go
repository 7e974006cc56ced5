package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxSnapshotName bounds stored snapshot names.
const maxSnapshotName = 128

// ValidateSnapshotName validates a snapshot name for use as a storage key.
// Names double as file names in the file store, so the rules are strict:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - No leading dot
//   - Maximum length of 128 characters
func ValidateSnapshotName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "snapshot name cannot be empty")
	}

	if len(name) > maxSnapshotName {
		return New(ErrCodeInvalidInput, "snapshot name too long (max %d characters)", maxSnapshotName)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "snapshot name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "snapshot name contains invalid characters: %q", name)
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidInput, "snapshot name cannot start with a dot")
	}

	return nil
}

// ValidateFactor validates a resize factor. NaN and infinities are rejected
// because the ceiling of their product with a weight is undefined.
func ValidateFactor(factor float64) error {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return New(ErrCodeInvalidArgument, "resize factor must be finite, got %v", factor)
	}
	return nil
}

// ValidateExtent validates a layout width or height.
func ValidateExtent(name string, v int) error {
	if v < 0 {
		return New(ErrCodeInvalidArgument, "%s must not be negative, got %d", name, v)
	}
	return nil
}
