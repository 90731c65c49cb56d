// Package apperrors defines the error taxonomy shared by all services:
// NotFound (referenced entity absent), Invalid (semantically illegal request)
// and Conflict (uniqueness violation). All three are terminal and
// non-retryable; callers decide what to do with them.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindConflict
)

// Error is a kinded error carrying enough context (the offending id or
// field) to render an actionable message upstream.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// NotFound reports that a referenced id or entity does not exist
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Invalid reports a semantically illegal request, e.g. empty post text or a
// self-friendship
func Invalid(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalid, Msg: fmt.Sprintf(format, args...)}
}

// Conflict reports a uniqueness violation, e.g. a duplicate username or a
// duplicate friendship edge
func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or KindUnknown for foreign errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
func IsInvalid(err error) bool  { return KindOf(err) == KindInvalid }
func IsConflict(err error) bool { return KindOf(err) == KindConflict }
