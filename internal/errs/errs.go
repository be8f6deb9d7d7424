// Package errs defines coded errors for the suite.
//
// The three domain codes mirror the failure taxonomy of a scenario run:
// LocatorNotFound aborts the whole run (shared precondition), while
// SettlementTimeout and AssertionMismatch fail only the scenario that
// raised them. Nothing here is retried; retry policy belongs to callers.
package errs

import "errors"

// Code is an application error code.
type Code string

const (
	LocatorNotFound   Code = "locator_not_found"
	SettlementTimeout Code = "settlement_timeout"
	AssertionMismatch Code = "assertion_mismatch"
	InvalidArgument   Code = "invalid_argument"
	Internal          Code = "internal"
)

// Error is a coded application error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a coded error with message.
func New(code Code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a coded error with message and cause.
func Wrap(code Code, message string, cause error) error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// CodeOf returns the error code, defaulting to internal.
func CodeOf(err error) Code {
	if err == nil {
		return Internal
	}
	var coded *Error
	if errors.As(err, &coded) {
		if coded.Code == "" {
			return Internal
		}
		return coded.Code
	}
	return Internal
}

// Is reports whether the error carries the given code.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code == code
	}
	return false
}
