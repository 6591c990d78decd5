package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can branch without matching strings
type Kind int

const (
	KindUnexpected Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindValidation
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unexpected"
	}
}

// UnexpectedReason is the only text clients see for store or network faults
const UnexpectedReason = "An unexpected error occurred"

// Error is a failure with a kind and a client-safe reason. Err holds the
// underlying cause for logging and is never serialized.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind and reason, so sentinel values
// declared with New work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Reason == t.Reason
}

func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

func Validation(reason string) *Error {
	return New(KindValidation, reason)
}

func NotFoundf(format string, args ...any) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

func ForbiddenReason(reason string) *Error {
	return New(KindForbidden, reason)
}

// Unexpected wraps a store or network fault behind the generic reason
func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Reason: UnexpectedReason, Err: err}
}

// KindOf returns the kind of err, KindUnexpected when it carries none
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// ReasonOf returns the client-safe reason of err
func ReasonOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Reason
	}
	return UnexpectedReason
}
