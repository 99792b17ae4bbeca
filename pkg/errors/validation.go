package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidateRows checks that a grid has at least one row.
func ValidateRows(rows int) error {
	if rows < 1 {
		return New(ErrCodeInvalidConfiguration, "rows must be at least 1, got %d", rows)
	}
	return nil
}

// ValidateAxis checks one constraint axis: both bounds non-negative and
// min not greater than max. The axis name is used only in the message.
func ValidateAxis(axis string, lo, hi int) error {
	if lo < 0 || hi < 0 {
		return New(ErrCodeInvalidConfiguration, "%s bounds must be non-negative, got [%d, %d]", axis, lo, hi)
	}
	if lo > hi {
		return New(ErrCodeInvalidConfiguration, "min %s %d exceeds max %s %d", axis, lo, axis, hi)
	}
	return nil
}

// ValidateBox checks that the measured size of child i is non-negative.
func ValidateBox(i, width, height int) error {
	if width < 0 || height < 0 {
		return New(ErrCodeInvalidConfiguration, "child %d has negative size %dx%d", i, width, height)
	}
	return nil
}

// ValidateFormat checks that format is one of the supported output formats.
func ValidateFormat(format string, supported []string) error {
	for _, s := range supported {
		if format == s {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(supported, ", "))
}

// ValidatePath validates a file path supplied on the command line.
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
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

const maxTaskLength = 500

// ValidateTask validates the text of a to-do item.
// Tasks must contain something other than whitespace and have at most 500
// characters (runes, not bytes).
func ValidateTask(task string) error {
	if strings.TrimSpace(task) == "" {
		return New(ErrCodeInvalidInput, "task cannot be blank")
	}
	if utf8.RuneCountInString(task) > maxTaskLength {
		return New(ErrCodeInvalidInput, "task too long (max 500 characters)")
	}
	for _, r := range task {
		if unicode.IsControl(r) && r != '\t' {
			return New(ErrCodeInvalidInput, "task contains control characters")
		}
	}
	return nil
}
