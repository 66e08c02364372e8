// Package apperr defines the tagged error kinds surfaced across the core.
package apperr

import (
	"errors"
	"fmt"
)

// Kind tags the semantic category of an error, independent of its message.
type Kind int

const (
	// KindInternal covers I/O failure, serialization failure, background
	// task failure. Logged and surfaced. Errors of this kind are built with
	// Internal.
	KindInternal Kind = iota
	// NotFound means a named entity (file, symbol, session) does not exist.
	NotFound
	// BadRequest means malformed input: bad regex, non-directory path,
	// invalid chunk params, unknown mark.
	BadRequest
	// Gone means a session's project was evicted.
	Gone
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case BadRequest:
		return "bad_request"
	case Gone:
		return "gone"
	default:
		return "internal"
	}
}

// Error wraps an underlying cause with a Kind so callers can branch on it
// with Is/As without parsing messages.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) *Error  { return newf(NotFound, format, args...) }
func BadRequestf(format string, args ...interface{}) *Error { return newf(BadRequest, format, args...) }
func Gonef(format string, args ...interface{}) *Error       { return newf(Gone, format, args...) }

func Internal(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Wrap attaches Kind to err while preserving it as the wrapped cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from err, defaulting to KindInternal for plain
// errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
