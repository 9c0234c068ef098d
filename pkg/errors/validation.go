package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateOutputPath validates a drawing output path for safety and correctness.
// It rejects paths that could not name a writable file.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of 500 characters
//   - Must not end in a path separator
//
// Existence of the parent directory is checked at write time, not here.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path must name a file, not a directory")
	}

	return nil
}

// ValidateSheetName validates a workbook sheet name before lookup.
// Whether the sheet exists in a given workbook is checked by the loader.
func ValidateSheetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSheet, "sheet name cannot be empty")
	}

	// Excel caps sheet names at 31 characters; reject anything longer
	// so lookup failures stay distinguishable from bad input.
	if len(name) > 31 {
		return New(ErrCodeInvalidSheet, "sheet name too long (max 31 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSheet, "sheet name contains invalid control characters")
		}
	}

	return nil
}

// drawingNameRegex matches valid archive drawing names.
var drawingNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ._-]*$`)

// ValidateDrawingName validates a name under which a render is archived.
// Names become document keys, so path separators and control characters
// are rejected outright.
func ValidateDrawingName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "drawing name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "drawing name too long (max 128 characters)")
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "drawing name cannot contain path separators")
	}

	if !drawingNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid drawing name: %q", name)
	}

	return nil
}
