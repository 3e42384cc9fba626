package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"maps"
)

// Error is a failure with a category, a message for the caller, an optional
// cause and free-form metadata for logs
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same code, so errors.Is(err, NotFound(""))
// works through wrapping
func (e *Error) Is(target error) bool {
	var t *Error
	return stderrors.As(target, &t) && t.Code == e.Code
}

// WithMeta sets a metadata key and returns e
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = map[string]any{}
	}
	e.Meta[key] = value
	return e
}

// As finds the first *Error in err's chain
func As(err error, target **Error) bool {
	return stderrors.As(err, target)
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap adds context to err. The code of an *Error in the chain is kept and
// anything else becomes CodeInternal. A nil err stays nil.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	code := CodeInternal
	var meta map[string]any
	var inner *Error
	if As(err, &inner) {
		code = inner.Code
		meta = inner.Meta
	}
	return &Error{Code: code, Message: message, Cause: err, Meta: meta}
}

func Wrapf(err error, format string, args ...any) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps err under a new code. Metadata is copied so the two
// errors can diverge.
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	var meta map[string]any
	var inner *Error
	if As(err, &inner) && inner.Meta != nil {
		meta = maps.Clone(inner.Meta)
	}
	return &Error{Code: code, Message: message, Cause: err, Meta: meta}
}

// FromContext codes a context error: a passed deadline is
// CodeDeadlineExceeded and a cancellation CodeCanceled
func FromContext(err error, message string) *Error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, context.DeadlineExceeded):
		return WrapWithCode(err, CodeDeadlineExceeded, message)
	case stderrors.Is(err, context.Canceled):
		return WrapWithCode(err, CodeCanceled, message)
	}
	return Wrap(err, message)
}

// Constructors per category
func NotFound(message string) *Error           { return New(CodeNotFound, message) }
func InvalidArgument(message string) *Error    { return New(CodeInvalidArgument, message) }
func FailedPrecondition(message string) *Error { return New(CodeFailedPrecondition, message) }
func Unavailable(message string) *Error        { return New(CodeUnavailable, message) }
func DeadlineExceeded(message string) *Error   { return New(CodeDeadlineExceeded, message) }
func Canceled(message string) *Error           { return New(CodeCanceled, message) }
func ResourceExhausted(message string) *Error  { return New(CodeResourceExhausted, message) }
func Internal(message string) *Error           { return New(CodeInternal, message) }

func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

func FailedPreconditionf(format string, args ...any) *Error {
	return Newf(CodeFailedPrecondition, format, args...)
}

func Internalf(format string, args ...any) *Error {
	return Newf(CodeInternal, format, args...)
}
