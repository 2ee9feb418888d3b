package service

import (
	"errors"
	"fmt"

	"github.com/mmynk/ledger/internal/storage"
)

// Code classifies a service failure. The API layer maps codes to HTTP statuses.
type Code int

const (
	CodeUnknown Code = iota
	CodeInvalidArgument
	CodeUnauthenticated
	CodePermissionDenied
	CodeNotFound
	CodeAlreadyExists
	CodeAborted
	CodeInternal
)

func (c Code) String() string {
	switch c {
	case CodeInvalidArgument:
		return "invalid_argument"
	case CodeUnauthenticated:
		return "unauthenticated"
	case CodePermissionDenied:
		return "permission_denied"
	case CodeNotFound:
		return "not_found"
	case CodeAlreadyExists:
		return "already_exists"
	case CodeAborted:
		return "aborted"
	case CodeInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a service failure carrying a Code.
type Error struct {
	Code Code
	Err  error
}

// NewError wraps err with code.
func NewError(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

// Errorf builds an Error from a format string.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the client-facing text. Internal errors never expose detail.
func (e *Error) Message() string {
	if e.Code == CodeInternal || e.Code == CodeUnknown {
		return "Server Error"
	}
	return e.Error()
}

// CodeOf returns the code carried by err, or CodeInternal for plain errors.
func CodeOf(err error) Code {
	if err == nil {
		return CodeUnknown
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return CodeInternal
}

// storeError translates storage sentinels into service errors. msg is the
// client-facing text for not-found and conflict cases.
func storeError(err error, msg string) *Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return NewError(CodeNotFound, errors.New(msg))
	case errors.Is(err, storage.ErrConflict):
		return NewError(CodeAlreadyExists, errors.New(msg))
	default:
		return NewError(CodeInternal, err)
	}
}
