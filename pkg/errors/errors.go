// Package errors provides structured error handling for the columnar writer.
package errors

import (
	"errors"
	"runtime"

	stringpool "github.com/dataflowlabs/parquetcore/pkg/strings"
)

// ErrorType represents the category of error.
type ErrorType string

const (
	// ErrorTypeIllegalState means an operation was called in the wrong
	// FileWriter state. Programmer error: not recovered by the core.
	ErrorTypeIllegalState ErrorType = "illegal_state"
	// ErrorTypeInvalidRecord means the shredder encountered a missing
	// REQUIRED field, or a value incompatible with its leaf's primitive type.
	ErrorTypeInvalidRecord ErrorType = "invalid_record"
	// ErrorTypeEncodingOverflow means a value exceeded its declared bit
	// width, or a bit width outside [0,32] was requested.
	ErrorTypeEncodingOverflow ErrorType = "encoding_overflow"
	// ErrorTypeMalformedStream means a corrupt VARINT or truncated RLE
	// run was encountered while decoding.
	ErrorTypeMalformedStream ErrorType = "malformed_stream"
	// ErrorTypeIOFailure wraps any sink or compressor error.
	ErrorTypeIOFailure ErrorType = "io_failure"
	// ErrorTypeConfigurationError means the schema could not be
	// reconciled with the provided data source or writer config.
	ErrorTypeConfigurationError ErrorType = "configuration_error"
)

// Error represents a structured error with context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack.
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return stringpool.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return stringpool.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// Aborts reports whether an error of this type must abort the writer
// immediately rather than be handled by the caller (per the propagation
// rules for IllegalState, ConfigurationError and IOFailure).
func Aborts(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Type {
	case ErrorTypeIllegalState, ErrorTypeConfigurationError, ErrorTypeIOFailure:
		return true
	default:
		return false
	}
}

// captureStack captures the current call stack.
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
