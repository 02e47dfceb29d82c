package errors

import (
	"fmt"

	pkgErrors "github.com/pkg/errors"
)

// New returns an error with the given message.
func New(msg string) error {
	return pkgErrors.New(msg)
}

// Newf returns an error formatted according to the format specifier.
func Newf(format string, args ...interface{}) error {
	return pkgErrors.Errorf(format, args...)
}

// WithContext annotates `err` with a short description of what was being
// done when it occurred, e.g. "parse config". The message of the returned
// error is "context: err".
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return pkgErrors.WithMessage(err, context)
}

// RootCause returns the error at the bottom of a chain of WithContext calls.
func RootCause(err error) error {
	return pkgErrors.Cause(err)
}

// FriendlyError is an error whose message is meant to be shown to the user
// as is, without any of the context that was added while it propagated.
type FriendlyError struct {
	msg string
}

// NewFriendlyError creates a FriendlyError from a format string.
func NewFriendlyError(format string, args ...interface{}) error {
	return FriendlyError{fmt.Sprintf(format, args...)}
}

func (err FriendlyError) Error() string {
	return err.msg
}

// FriendlyMessage returns the message to show the user.
func (err FriendlyError) FriendlyMessage() string {
	return err.msg
}

type friendlyMessager interface {
	FriendlyMessage() string
}

// GetPrintableMessage returns the friendly message of the root cause of
// `err` if it has one. Otherwise it returns the full error string.
func GetPrintableMessage(err error) string {
	if friendlyErr, ok := RootCause(err).(friendlyMessager); ok {
		return friendlyErr.FriendlyMessage()
	}
	return err.Error()
}
