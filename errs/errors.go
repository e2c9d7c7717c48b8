// Package errs defines the error kinds surfaced by the generator, the set store
// and the HTTP layer. Every failure that leaves one of those components is an
// *Error carrying a Kind and a message that is safe to show to a user.
package errs

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation    Kind = "validation"
	KindFormat        Kind = "format"
	KindAuth          Kind = "auth"
	KindDuplicateName Kind = "duplicate_name"
	KindDownstream    Kind = "downstream"
)

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrFormat        = &Error{Kind: KindFormat}
	ErrAuth          = &Error{Kind: KindAuth}
	ErrDuplicateName = &Error{Kind: KindDuplicateName}
	ErrDownstream    = &Error{Kind: KindDownstream}
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Format(err error, format string, args ...any) error {
	return &Error{Kind: KindFormat, Message: fmt.Sprintf(format, args...), Err: err}
}

func Auth(format string, args ...any) error {
	return &Error{Kind: KindAuth, Message: fmt.Sprintf(format, args...)}
}

func DuplicateName(name string) error {
	return &Error{Kind: KindDuplicateName, Message: fmt.Sprintf("a flashcard set named %q already exists", name)}
}

func Downstream(err error, format string, args ...any) error {
	return &Error{Kind: KindDownstream, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Message returns the user-facing message of err. The wrapped cause is left out
// so infrastructure details do not leak into responses.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
