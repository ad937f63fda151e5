// Package errors provides structured error types for flowcanvas.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP service can
// map failures to exit statuses and problem documents without string matching.
// An error can also name the canvas node it concerns, which lets a batch
// assembly report which request in the batch failed.
//
// Codes are grouped by prefix: INVALID_* for rejected input, *_NOT_FOUND for
// missing resources, and the rest for measurement and internal failures.
//
// Port alignment findings are not errors. They are reported through
// validate.Report values and never travel through this package.
//
//	err := errors.New(errors.ErrCodeInvalidNodeType, "unknown node type: %s", t)
//	err = errors.WithNode(err, "n-42")
//	errors.NodeID(err) // "n-42"
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidNodeType Code = "INVALID_NODE_TYPE"
	ErrCodeInvalidRequest  Code = "INVALID_REQUEST"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle    Code = "INVALID_STYLE"
	ErrCodeInvalidFlow     Code = "INVALID_FLOW"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeMeasurement Code = "MEASUREMENT_FAILED"
	ErrCodeTimeout     Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Invalid reports whether c belongs to the INVALID_* family.
func (c Code) Invalid() bool {
	return strings.HasPrefix(string(c), "INVALID_")
}

// Error is a structured error with a code, an optional node and an
// optional cause.
type Error struct {
	Code    Code
	Message string
	Node    string // id of the canvas node the error concerns, if any
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	if e.Node != "" {
		fmt.Fprintf(&b, "node %s: ", e.Node)
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that wraps cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WithNode attributes err to the canvas node nodeID. A structured error keeps
// its code and message; any other error becomes INTERNAL_ERROR. A nil err
// stays nil.
func WithNode(err error, nodeID string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		attributed := *e
		attributed.Node = nodeID
		return &attributed
	}
	return &Error{Code: ErrCodeInternal, Message: err.Error(), Node: nodeID, Cause: err}
}

// NodeID returns the node the outermost structured error in err's chain is
// attributed to, or "".
func NodeID(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Node
	}
	return ""
}

// Is reports whether the outermost structured error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from err, or "" for unstructured errors.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix, naming the node
// when one is attached.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Node != "" {
		return "node " + e.Node + ": " + e.Message
	}
	return e.Message
}

// IsInvalid reports whether err carries an INVALID_* code.
func IsInvalid(err error) bool {
	return GetCode(err).Invalid()
}
