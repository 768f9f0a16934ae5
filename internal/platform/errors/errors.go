package errors

import (
	stderrors "errors"
	"strings"
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // User-facing message
	Status   int               // Upstream HTTP status, zero when not applicable
	Metadata map[string]string // Field-level details, keyed by form field for validation
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil && e.Message == "" {
		return e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error with metadata for field rendering.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Upstream creates an error for a non-2xx response. 401/403 and 404 are
// refined to CodeUnauthorized and CodeNotFound.
func Upstream(status int, message string) *Error {
	code := CodeHTTPStatus
	switch status {
	case 401, 403:
		code = CodeUnauthorized
	case 404:
		code = CodeNotFound
	}
	return &Error{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// CodeOf returns the code carried by err, or CodeUnknown.
func CodeOf(err error) Code {
	var domainErr *Error
	if stderrors.As(err, &domainErr) && domainErr != nil {
		return domainErr.Code
	}
	return CodeUnknown
}

// UserMessage returns the text shown to the operator for err, falling back
// to fallback when the error carries no message of its own.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var domainErr *Error
	if stderrors.As(err, &domainErr) && domainErr != nil {
		if msg := strings.TrimSpace(domainErr.Message); msg != "" {
			return msg
		}
	}
	return fallback
}

// Fields returns the validation field map carried by err.
func Fields(err error) map[string]string {
	var domainErr *Error
	if stderrors.As(err, &domainErr) && domainErr != nil && domainErr.Code == CodeValidation {
		return domainErr.Metadata
	}
	return nil
}
