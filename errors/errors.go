package errors

import (
	"errors"
)

var (
	ErrAPIError      = errors.New("api error")
	ErrIOError       = errors.New("io error")
	ErrNotFound      = errors.New("not found")
	ErrEmptyInput    = errors.New("empty input")
	ErrMalformedLine = errors.New("malformed line")
	ErrInvalidPath   = errors.New("invalid path")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnsupported   = errors.New("unsupported")
)

type wrapError struct {
	underlying error
	msg        string
	cause      error
}

var _ error = (*wrapError)(nil)

// NewAPIError wraps a failed remote call. The result matches both ErrAPIError and cause.
func NewAPIError(msg string, cause error) error {
	return &wrapError{
		underlying: ErrAPIError,
		msg:        msg,
		cause:      cause,
	}
}

// NewIOError wraps a failed local file operation. The result matches both ErrIOError and cause.
func NewIOError(msg string, cause error) error {
	return &wrapError{
		underlying: ErrIOError,
		msg:        msg,
		cause:      cause,
	}
}

func (err *wrapError) Error() string {
	if err == nil {
		return "(*wrapError)(nil)"
	}
	message := err.underlying.Error() + ": " + err.msg
	if err.cause != nil {
		message += ": " + err.cause.Error()
	}
	return message
}

func (err *wrapError) Unwrap() []error {
	if err.cause == nil {
		return []error{err.underlying}
	}
	return []error{err.underlying, err.cause}
}
