// Package apperr defines the error taxonomy shared by all engine services.
// The presentation layer maps kinds to status codes; services never do.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure.
type Kind int

const (
	// KindNotFound means a referenced id has no active row.
	KindNotFound Kind = iota + 1
	// KindConflict means an illegal state transition or duplicate active row.
	KindConflict
	// KindPermission means the actor lacks the role or ownership required.
	KindPermission
	// KindValidation means malformed input.
	KindValidation
	// KindRetryable means a transient store failure the caller may retry.
	KindRetryable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPermission:
		return "permission_denied"
	case KindValidation:
		return "validation"
	case KindRetryable:
		return "retryable"
	default:
		return "unknown"
	}
}

// Error carries a kind alongside a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two taxonomy errors by kind, so callers can
// compare against the exported sentinels below.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrPermission = &Error{Kind: KindPermission}
	ErrValidation = &Error{Kind: KindValidation}
	ErrRetryable  = &Error{Kind: KindRetryable}
)

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Permission(format string, args ...any) error {
	return &Error{Kind: KindPermission, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Retryable wraps a transient store error so callers can distinguish it
// from a validation failure.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindRetryable, Message: "transient store failure", Err: err}
}

// KindOf reports the kind of err, or 0 when err is outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
