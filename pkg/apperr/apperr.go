// Package apperr defines the error kinds surfaced to API callers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the presentation layer.
type Kind string

const (
	KindUnknown          Kind = ""
	KindNotFound         Kind = "not_found"
	KindPermissionDenied Kind = "permission_denied"
	KindInvalidState     Kind = "invalid_state"
	KindRuleViolation    Kind = "rule_violation"
	KindConflict         Kind = "conflict"
	KindEmptyLog         Kind = "empty_log"
)

// Error carries a Kind and a human readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Errorf returns an error of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind and msg to err.
func Wrap(kind Kind, err error, msg string) error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err is of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user facing message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func NotFound(format string, args ...interface{}) error {
	return Errorf(KindNotFound, format, args...)
}

func PermissionDenied(format string, args ...interface{}) error {
	return Errorf(KindPermissionDenied, format, args...)
}

func InvalidState(format string, args ...interface{}) error {
	return Errorf(KindInvalidState, format, args...)
}

func RuleViolation(format string, args ...interface{}) error {
	return Errorf(KindRuleViolation, format, args...)
}
