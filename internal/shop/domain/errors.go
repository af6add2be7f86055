package domain

import (
	"errors"
	"fmt"
)

// Code is the machine-checkable category of a failed operation.
type Code string

const (
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeAlreadyExists   Code = "ALREADY_EXISTS"
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeRevoked         Code = "REVOKED"
	CodeInternal        Code = "INTERNAL"
)

// Sentinels for errors.Is. Any *Error with the same code matches.
var (
	ErrInvalidInput    = &Error{Code: CodeInvalidInput}
	ErrNotFound        = &Error{Code: CodeNotFound}
	ErrConflict        = &Error{Code: CodeConflict}
	ErrAlreadyExists   = &Error{Code: CodeAlreadyExists}
	ErrUnauthenticated = &Error{Code: CodeUnauthenticated}
	ErrRevoked         = &Error{Code: CodeRevoked}
	ErrInternal        = &Error{Code: CodeInternal}
)

// ErrStaleVersion is returned by a UserRepository when the record changed
// since it was read. It never reaches clients directly.
var ErrStaleVersion = errors.New("user record was modified concurrently")

// Error is a business or infrastructure failure with a stable code.
type Error struct {
	Code    Code
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on code so callers can write errors.Is(err, domain.ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func InvalidInput(msg string) *Error {
	return &Error{Code: CodeInvalidInput, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func Conflict(msg string, details any) *Error {
	return &Error{Code: CodeConflict, Message: msg, Details: details}
}

func AlreadyExists(msg string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: msg}
}

func Unauthenticated(msg string) *Error {
	return &Error{Code: CodeUnauthenticated, Message: msg}
}

func Revoked(msg string) *Error {
	return &Error{Code: CodeRevoked, Message: msg}
}

// Internal wraps an unexpected failure behind a safe message.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "internal server error", Err: err}
}

// CodeOf returns the code carried by err, or CodeInternal for untyped errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// AsError converts any error into an *Error, wrapping untyped ones as Internal.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
