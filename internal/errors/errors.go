package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is the structured error type for folder2index.
// It provides context for error handling, logging, and user presentation.
type Error struct {
	// Code is the unique error code (e.g., "ERR_301_DECODE_FAILED").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Argument, Decode, Index, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// New creates a new Error with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an Error from an existing error.
// The error's message becomes the Error message.
func Wrap(code string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ArgumentError creates an invalid-argument error.
func ArgumentError(message string, cause error) *Error {
	return New(ErrCodeInvalidArgument, message, cause)
}

// ConfigError creates a configuration-file error.
func ConfigError(message string, cause error) *Error {
	return New(ErrCodeConfigInvalid, message, cause)
}

// DecodeError creates a fatal decode error for the given file.
func DecodeError(path string, cause error) *Error {
	return New(ErrCodeDecodeFailed, "cannot decode "+path, cause).WithDetail("path", path)
}

// ReadError creates a fatal file read error.
func ReadError(path string, cause error) *Error {
	return New(ErrCodeFileRead, "cannot read "+path, cause).WithDetail("path", path)
}

// ExtractionError creates a per-file extraction error.
func ExtractionError(path string, cause error) *Error {
	return New(ErrCodeExtractionFailed, "cannot parse "+path, cause).WithDetail("path", path)
}

// IndexError creates an index I/O error with the given code.
func IndexError(code, message string, cause error) *Error {
	return New(code, message, cause)
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsFatal checks if an error aborts the run.
// Errors that are not *Error are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := As(err); ok {
		return e.Severity == SeverityFatal
	}
	return true
}

// IsArgument reports whether err is an argument or configuration error.
func IsArgument(err error) bool {
	if e, ok := As(err); ok {
		return e.Category == CategoryArgument
	}
	return false
}

// GetCode extracts the error code from an Error.
// Returns empty string if err carries no *Error.
func GetCode(err error) string {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ""
}

// GetCategory extracts the category from an Error.
// Returns empty string if err carries no *Error.
func GetCategory(err error) Category {
	if e, ok := As(err); ok {
		return e.Category
	}
	return ""
}
