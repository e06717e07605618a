// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error taxonomy shared by every hwtopo component. All failures are returned
// as *Error values carrying a stable ErrorCode.

package api

import (
	"errors"
	"fmt"
)

// ErrorCode identifies an error condition. Values are stable and negative for
// failures so they can cross a flat call boundary unchanged.
type ErrorCode int

const (
	ErrCodeSuccess              ErrorCode = 0
	ErrCodeNoProcessorsDetected ErrorCode = -1
	ErrCodeTopologyInconsistent ErrorCode = -2
	ErrCodeInvalidIndex         ErrorCode = -3
	ErrCodeAdapterUnavailable   ErrorCode = -4
	ErrCodeUnsupported          ErrorCode = -5
	ErrCodePermissionDenied     ErrorCode = -6
	ErrCodeInvalidParameter     ErrorCode = -7
	ErrCodeEngineClosed         ErrorCode = -8
	ErrCodeInternal             ErrorCode = -99
)

// ErrorCodes lists every defined code in declaration order.
var ErrorCodes = []ErrorCode{
	ErrCodeSuccess,
	ErrCodeNoProcessorsDetected,
	ErrCodeTopologyInconsistent,
	ErrCodeInvalidIndex,
	ErrCodeAdapterUnavailable,
	ErrCodeUnsupported,
	ErrCodePermissionDenied,
	ErrCodeInvalidParameter,
	ErrCodeEngineClosed,
	ErrCodeInternal,
}

// Description returns a stable, locale-independent description of the code.
func (c ErrorCode) Description() string {
	switch c {
	case ErrCodeSuccess:
		return "Success"
	case ErrCodeNoProcessorsDetected:
		return "No processors detected"
	case ErrCodeTopologyInconsistent:
		return "Processor topology is inconsistent"
	case ErrCodeInvalidIndex:
		return "Invalid index"
	case ErrCodeAdapterUnavailable:
		return "Processor information source unavailable"
	case ErrCodeUnsupported:
		return "Operation not supported on this platform"
	case ErrCodePermissionDenied:
		return "Permission denied"
	case ErrCodeInvalidParameter:
		return "Invalid parameter"
	case ErrCodeEngineClosed:
		return "Topology engine is closed"
	case ErrCodeInternal:
		return "Internal error"
	default:
		return "Unknown error code"
	}
}

func (c ErrorCode) String() string {
	return c.Description()
}

// Sentinel errors, usable with errors.Is against any *Error of the same code.
var (
	ErrNoProcessorsDetected = NewError(ErrCodeNoProcessorsDetected, "no processors detected")
	ErrTopologyInconsistent = NewError(ErrCodeTopologyInconsistent, "topology inconsistent")
	ErrInvalidIndex         = NewError(ErrCodeInvalidIndex, "invalid index")
	ErrAdapterUnavailable   = NewError(ErrCodeAdapterUnavailable, "adapter unavailable")
	ErrUnsupported          = NewError(ErrCodeUnsupported, "operation not supported")
	ErrPermissionDenied     = NewError(ErrCodePermissionDenied, "permission denied")
	ErrInvalidParameter     = NewError(ErrCodeInvalidParameter, "invalid parameter")
	ErrEngineClosed         = NewError(ErrCodeEngineClosed, "engine closed")
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if len(e.Context) > 0 {
		msg = fmt.Sprintf("%s (context: %+v)", msg, e.Context)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a structured error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// Wrap attaches a code and message to an underlying cause. Wrap(nil, ...)
// returns nil.
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// CodeOf maps any error to its code. nil is Success; errors that are not
// *Error map to Internal.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrCodeSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}
