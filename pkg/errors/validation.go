package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// hexColorRegex matches "#RRGGBB" color strings.
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateHexColor validates a palette color in "#RRGGBB" form.
func ValidateHexColor(c string) error {
	if !hexColorRegex.MatchString(c) {
		return Field(ErrCodeInvalidParams, "colors", "invalid hex color %q (want #RRGGBB)", c)
	}
	return nil
}

// ValidateIntRange checks lo <= v <= hi for an integer field.
func ValidateIntRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return Field(ErrCodeInvalidParams, field, "must be between %d and %d, got %d", lo, hi, v)
	}
	return nil
}

// ValidateFloatRange checks lo <= v <= hi for a float field.
// NaN never passes.
func ValidateFloatRange(field string, v, lo, hi float64) error {
	if !(v >= lo && v <= hi) {
		return Field(ErrCodeInvalidParams, field, "must be between %g and %g, got %g", lo, hi, v)
	}
	return nil
}

// patternIDRegex matches pattern identifiers such as "pattern_42_0".
var patternIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

// ValidatePatternID validates a pattern or image identifier taken from a URL path.
func ValidatePatternID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if !patternIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid id: %q", id)
	}
	return nil
}

// ValidatePath validates an output path for safety.
// It prevents control characters and unreasonable lengths; relative
// and absolute paths are both allowed for local CLI output.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No backslashes (Windows-style paths)
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

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateUploadFilename validates the client-supplied name of an uploaded file.
// It must be a simple basename with an image extension.
func ValidateUploadFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidImage, "filename cannot be empty")
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return New(ErrCodeInvalidImage, "filename cannot contain path separators")
	}
	lower := strings.ToLower(name)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".webp"} {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}
	return New(ErrCodeInvalidImage, "unsupported file type: %q (must be png, jpg, gif or webp)", name)
}
