// Package apperror classifies domain failures so the delivery layer can map
// them to transport status codes without knowing every sentinel.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindValidation
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation_error"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error is a classified domain error. Sentinels are compared by identity.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func Forbidden(code, message string) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: message}
}

func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func Unauthorized(code, message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message}
}

// Classified is implemented by error types that carry their own kind and code,
// such as errors with a payload.
type Classified interface {
	error
	Kind() Kind
	Code() string
}

// Describe returns the kind, reason code and client-facing message of err.
// Unclassified errors are reported as internal with a generic message.
func Describe(err error) (Kind, string, string) {
	var c Classified
	if errors.As(err, &c) {
		return c.Kind(), c.Code(), c.Error()
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind, e.Code, e.Message
	}

	return KindInternal, "internal_error", "Internal server error"
}

// KindOf returns the kind of err, KindInternal when unclassified.
func KindOf(err error) Kind {
	kind, _, _ := Describe(err)
	return kind
}

// Wrapf attaches context to a classified error while keeping it matchable.
func Wrapf(err *Error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
