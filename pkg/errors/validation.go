package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier supplied by a caller.
//
// Node ids end up inside port references and SVG attributes, so the rules
// are conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - No quotes or angle brackets
//   - Maximum length of 128 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "node id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "node id contains whitespace or control characters")
		}
	}

	if strings.ContainsAny(id, `"'<>&`) {
		return New(ErrCodeInvalidInput, "node id contains invalid characters: %q", id)
	}

	return nil
}

// portPrefixRegex matches port id prefixes such as "out" or "branch_a".
var portPrefixRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// ValidatePortPrefix validates the prefix used to derive sequential port ids.
func ValidatePortPrefix(prefix string) error {
	if !portPrefixRegex.MatchString(prefix) {
		return New(ErrCodeInvalidInput, "invalid port id prefix: %q", prefix)
	}
	return nil
}

// ValidateFlowPath validates a flow document path given on the command line.
// It rejects control characters and unsupported extensions.
func ValidateFlowPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return nil
	default:
		return New(ErrCodeInvalidPath, "unsupported flow file extension: %q (want .yaml, .yml or .json)", filepath.Ext(path))
	}
}
