package aerr

// Error kinds shared by every astrofile package. Callers branch on the
// kind with errors.Is; the message carries the specifics.

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrRange             = errors.New("value out of range for requested type")
	ErrOutOfRange        = errors.New("outside payload extents")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInconsistentState = errors.New("inconsistent state")
	ErrUnsupported       = errors.New("operation not supported by block kind")
)

// Error wraps one of the sentinel kinds with context.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Rangef(format string, args ...interface{}) error {
	return &Error{Kind: ErrRange, Msg: fmt.Sprintf(format, args...)}
}

func OutOfRangef(format string, args ...interface{}) error {
	return &Error{Kind: ErrOutOfRange, Msg: fmt.Sprintf(format, args...)}
}

func InvalidArgf(format string, args ...interface{}) error {
	return &Error{Kind: ErrInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

func Inconsistentf(format string, args ...interface{}) error {
	return &Error{Kind: ErrInconsistentState, Msg: fmt.Sprintf(format, args...)}
}

func Unsupportedf(format string, args ...interface{}) error {
	return &Error{Kind: ErrUnsupported, Msg: fmt.Sprintf(format, args...)}
}
