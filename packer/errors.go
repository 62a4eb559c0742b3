package packer

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the failure class of a packing operation.
type ErrorCode string

const (
	// ErrPathTraversal is returned for unsafe or unsanitizable paths.
	// Always fatal: the whole invocation aborts with no partial output.
	ErrPathTraversal ErrorCode = "PATH_TRAVERSAL"

	// ErrSizeLimit is returned when a per-file, cumulative, or file-count
	// ceiling is breached during validation or extraction.
	ErrSizeLimit ErrorCode = "SIZE_LIMIT"

	// ErrIntegrityMismatch is returned when the decompressed byte length of
	// an archive entry differs from its declared size.
	ErrIntegrityMismatch ErrorCode = "INTEGRITY_MISMATCH"

	// ErrInvalidInput is returned for empty file lists, buffers that are not
	// archives, and filenames containing null bytes or traversal tokens.
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
)

// PackError is a structured error carrying a stable code plus context details.
type PackError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *PackError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *PackError) Unwrap() error {
	return e.Wrapped
}

// Is matches PackErrors by code so errors.Is works with code sentinels.
func (e *PackError) Is(target error) bool {
	var targetErr *PackError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// NewError creates a PackError with the given code and formatted message.
func NewError(code ErrorCode, format string, args ...interface{}) *PackError {
	return &PackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError wraps an underlying error with a code and message.
func WrapError(code ErrorCode, err error, format string, args ...interface{}) *PackError {
	return &PackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Wrapped: err,
	}
}

// WithDetail attaches a named detail to the error and returns it for chaining.
func (e *PackError) WithDetail(key string, value interface{}) *PackError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsCode reports whether err (or anything it wraps) is a PackError with the code.
func IsCode(err error, code ErrorCode) bool {
	var packErr *PackError
	if errors.As(err, &packErr) {
		return packErr.Code == code
	}
	return false
}
