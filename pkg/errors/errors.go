package errors

import (
	stderrors "errors"
	"fmt"
)

// New returns an error with the given message. Errors created via New are
// comparable, so they can be used as sentinel values.
func New(msg string) error {
	return stderrors.New(msg)
}

// contextError annotates an error with the operation that produced it. The
// original error is preserved so that callers can inspect the root cause.
type contextError struct {
	context string
	err     error
}

func (err contextError) Error() string {
	return fmt.Sprintf("%s: %s", err.context, err.err)
}

// WithContext wraps `err` with a short description of the operation that
// failed. Chains of WithContext calls read outermost-first, e.g.
// "parse config: read file: permission denied".
func WithContext(err error, context string) error {
	return contextError{context, err}
}

// RootCause returns the innermost error in a chain of WithContext wrappings.
func RootCause(err error) error {
	for {
		contextErr, ok := err.(contextError)
		if !ok {
			return err
		}
		err = contextErr.err
	}
}

// FriendlyError is an error whose message is meant to be shown to the user
// verbatim, without any "context: " prefixes or stack information.
type FriendlyError interface {
	FriendlyMessage() string
}

type friendlyError struct {
	msg string
}

func (err friendlyError) Error() string {
	return err.msg
}

func (err friendlyError) FriendlyMessage() string {
	return err.msg
}

// NewFriendlyError creates an error that is printed to the user exactly as
// formatted. Use it for errors that the user is expected to act on.
func NewFriendlyError(format string, args ...interface{}) error {
	return friendlyError{fmt.Sprintf(format, args...)}
}

// GetPrintableMessage returns the message that should be shown to the user
// for `err`. Friendly errors are printed verbatim, all other errors include
// their full context chain.
func GetPrintableMessage(err error) string {
	if friendly, ok := RootCause(err).(FriendlyError); ok {
		return friendly.FriendlyMessage()
	}
	return err.Error()
}
