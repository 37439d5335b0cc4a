// Package errors provides the structured, coded errors dotmngr reports and
// the policy that separates run-fatal conditions from item-scoped ones.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"

	// Configuration errors
	ErrConfig        ErrorCode = "CONFIG"
	ErrUnknownMode   ErrorCode = "UNKNOWN_MODE"
	ErrGroupNotFound ErrorCode = "GROUP_NOT_FOUND"

	// Reconciliation errors, item scoped
	ErrSourceMissing ErrorCode = "SOURCE_MISSING"
	ErrCreateFailed  ErrorCode = "CREATE_FAILED"
	ErrRemoveFailed  ErrorCode = "REMOVE_FAILED"
	ErrTrashFailed   ErrorCode = "TRASH_FAILED"
	ErrVerifyFailed  ErrorCode = "VERIFY_FAILED"

	// Reconciliation errors, run scoped
	ErrCrossVolume           ErrorCode = "CROSS_VOLUME"
	ErrUnsupportedTargetType ErrorCode = "UNSUPPORTED_TARGET_TYPE"
	ErrCopyFailed            ErrorCode = "COPY_FAILED"

	// State errors
	ErrStateCorrupt ErrorCode = "STATE_CORRUPT"
)

// CodedError represents a structured error with code and details
type CodedError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CodedError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CodedError) Unwrap() error {
	return e.Wrapped
}

// Is reports code equality so sentinel comparisons work with errors.Is
func (e *CodedError) Is(target error) bool {
	var targetErr *CodedError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CodedError with the given code and message
func New(code ErrorCode, message string) *CodedError {
	return &CodedError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CodedError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CodedError {
	return &CodedError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CodedError
func Wrap(err error, code ErrorCode, message string) *CodedError {
	if err == nil {
		return nil
	}
	return &CodedError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CodedError {
	if err == nil {
		return nil
	}
	return &CodedError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CodedError) WithDetail(key string, value interface{}) *CodedError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code == code
	}
	return false
}

// Code returns the error code from an error, or ErrUnknown if the error is
// not a CodedError
func Code(err error) ErrorCode {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ErrUnknown
}

// fatalCodes is the explicit halt-the-run set. Everything else is item
// scoped: it warns, records a result, and the run continues.
var fatalCodes = map[ErrorCode]bool{
	ErrConfig:                true,
	ErrUnknownMode:           true,
	ErrGroupNotFound:         true,
	ErrCrossVolume:           true,
	ErrUnsupportedTargetType: true,
	ErrCopyFailed:            true,
	ErrInternal:              true,
}

// IsFatal reports whether an error must abort the entire run, including the
// group currently in progress. Non-coded errors are treated as item scoped.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return fatalCodes[Code(err)]
}
