package mondoc

import (
	"errors"
	"fmt"

	"github.com/arlev/mondoc/ir"
	"github.com/arlev/mondoc/validate"
)

// ErrorCode represents a machine-readable compilation error code.
type ErrorCode string

const (
	// CodeInvalidInput marks a missing or undecodable input document.
	CodeInvalidInput ErrorCode = "invalid_input"
	// CodeUnrecognizedType marks a property kind outside the supported set.
	CodeUnrecognizedType ErrorCode = "unrecognized_type"
	// CodeUnrecognizedFormat marks a number property with an unsupported format.
	CodeUnrecognizedFormat ErrorCode = "unrecognized_format"
	// CodeMalformedReference marks a reference pointer that does not match
	// the "#/definitions/Name" shape.
	CodeMalformedReference ErrorCode = "malformed_reference"
	// CodeUnknownDefinition marks a reference to a definition that is not in
	// the document.
	CodeUnknownDefinition ErrorCode = "unknown_definition"
	// CodeUnknownValidator marks a validator name with no registration.
	CodeUnknownValidator ErrorCode = "unknown_validator"
	// CodeInvalidExtension marks an extension block that does not decode.
	CodeInvalidExtension ErrorCode = "invalid_extension"
)

// Error is the compiler's error value. One bad definition aborts the whole
// run; there is no partial-result recovery.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates a new compilation error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new compilation error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetail returns a new Error with the key-value pair added to details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// CodeOf extracts the error code from err, or "" for non-compiler errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// translateErr maps sentinel errors from the ir and validate packages onto
// compiler error codes. Errors that already carry a code pass through.
func translateErr(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	code := CodeInvalidInput
	switch {
	case errors.Is(err, ir.ErrBadReference):
		code = CodeMalformedReference
	case errors.Is(err, ir.ErrUnknownDefinition):
		code = CodeUnknownDefinition
	case errors.Is(err, ir.ErrInvalidExtension):
		code = CodeInvalidExtension
	case errors.Is(err, validate.ErrUnknown):
		code = CodeUnknownValidator
	}
	return NewError(code, err.Error())
}
