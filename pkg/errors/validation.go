package errors

import (
	"errors"
	"strings"
	"unicode"
)

// Problem is one rejected aspect of a mutation.
type Problem struct {
	Code    Code
	Message string
}

// ValidationError collects every problem found while validating a mutation.
// A mutation is rejected as a whole: the store is never partially updated.
type ValidationError struct {
	Problems []Problem
}

// Add appends a problem.
func (v *ValidationError) Add(code Code, message string) {
	v.Problems = append(v.Problems, Problem{Code: code, Message: message})
}

// Has reports whether any problem carries code.
func (v *ValidationError) Has(code Code) bool {
	for _, p := range v.Problems {
		if p.Code == code {
			return true
		}
	}
	return false
}

// Messages returns the human-readable problem list in discovery order.
func (v *ValidationError) Messages() []string {
	out := make([]string, len(v.Problems))
	for i, p := range v.Problems {
		out[i] = p.Message
	}
	return out
}

// Error joins all messages, one per line.
func (v *ValidationError) Error() string {
	return strings.Join(v.Messages(), "\n")
}

// Err returns v as an error, or nil when no problems were recorded.
func (v *ValidationError) Err() error {
	if v == nil || len(v.Problems) == 0 {
		return nil
	}
	return v
}

// Messages extracts the human-readable problem list from err.
// Non-validation errors yield their user message as a single entry.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Messages()
	}
	return []string{UserMessage(err)}
}

// ValidatePersonID validates an externally supplied person identifier.
// Ids are opaque, but they travel through file names, cache keys, and URLs,
// so control characters, path separators, and oversized values are refused.
func ValidatePersonID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "person id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "person id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "person id contains invalid control characters")
		}
	}

	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidInput, "person id cannot contain path separators")
	}

	return nil
}

// ValidatePath validates a user-supplied file path for import or export.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 1024
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
