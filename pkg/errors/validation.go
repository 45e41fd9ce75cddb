package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxLayoutIDLength bounds store keys so they stay usable as file names.
const maxLayoutIDLength = 128

// ValidateLayoutID validates a layout identifier before it is used as a
// store key, file name or URL path segment.
//
// The rules are conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateLayoutID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "layout id cannot be empty")
	}

	if len(id) > maxLayoutIDLength {
		return New(ErrCodeInvalidInput, "layout id too long (max %d characters)", maxLayoutIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "layout id contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "layout id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateWholeNumber reports an INVALID_COORDINATES error unless v is a
// finite number without a fractional part. field names the offending value.
func ValidateWholeNumber(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidCoordinates, "%s is not a finite number", field)
	}
	if v != math.Trunc(v) {
		return New(ErrCodeInvalidCoordinates, "%s must be an integer, got %v", field, v)
	}
	return nil
}

// ValidateFinite reports an INVALID_COORDINATES error if v is NaN or infinite.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidCoordinates, "%s is not a finite number", field)
	}
	return nil
}
