package apperrors

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindForbidden   Kind = "forbidden"
	KindConflict    Kind = "conflict"
	KindUnavailable Kind = "unavailable"
)

// Error is a failure the caller can act on. Everything else is internal.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error with the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation  = &Error{Kind: KindValidation, Message: "invalid request"}
	ErrNotFound    = &Error{Kind: KindNotFound, Message: "not found"}
	ErrForbidden   = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrConflict    = &Error{Kind: KindConflict, Message: "conflict"}
	ErrUnavailable = &Error{Kind: KindUnavailable, Message: "service temporarily unavailable"}
)

const StageMessage = "You cannot act on this application at this stage"

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Unavailable marks a storage failure. The cause is kept for logging only.
func Unavailable(cause error, msg string) error {
	return errors.WithMessage(&Error{Kind: KindUnavailable, Message: "service temporarily unavailable"}, errors.Wrap(cause, msg).Error())
}

func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

// PublicMessage is the text safe to return to a client.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
