package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidatePositive checks that a numeric knob is a finite, strictly positive value.
// The field name is included in the message so the caller can point the user at
// the offending setting.
func ValidatePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number, got %g", field, v)
	}
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %g", field, v)
	}
	return nil
}

// ValidateRepoPath validates a repository path supplied by a user or API client.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateRepoPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "repository path cannot be empty")
	}

	const maxPathLength = 4096
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

// ValidateCommitHash validates an abbreviated or full commit hash used in lookups.
// Hashes are compared as opaque strings by the layout engine, but lookups coming
// from the network must not carry separators or whitespace.
func ValidateCommitHash(hash string) error {
	if hash == "" {
		return New(ErrCodeInvalidInput, "commit hash cannot be empty")
	}
	if len(hash) > 64 {
		return New(ErrCodeInvalidInput, "commit hash too long (max 64 characters)")
	}
	if strings.ContainsAny(hash, "|/\\ \t\r\n") {
		return New(ErrCodeInvalidInput, "commit hash contains invalid characters: %q", hash)
	}
	return nil
}
