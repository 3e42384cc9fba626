package errors

// Code classifies a failure so callers can branch without matching messages
type Code string

// Failure categories. A backend that cannot be reached reports
// CodeUnavailable, an expired generation deadline CodeDeadlineExceeded, and a
// superseded dialogue turn CodeCanceled.
const (
	CodeOK                 Code = "OK"
	CodeCanceled           Code = "CANCELED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeDeadlineExceeded   Code = "DEADLINE_EXCEEDED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeResourceExhausted  Code = "RESOURCE_EXHAUSTED"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
)

func (c Code) String() string {
	return string(c)
}

// GetCode returns the code carried by err. Nil is CodeOK and anything that is
// not an *Error is CodeInternal.
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// GetMessage returns the outermost message of err without its cause chain
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Category checks on any error, wrapped or not
func IsNotFound(err error) bool           { return GetCode(err) == CodeNotFound }
func IsInvalidArgument(err error) bool    { return GetCode(err) == CodeInvalidArgument }
func IsUnavailable(err error) bool        { return GetCode(err) == CodeUnavailable }
func IsDeadlineExceeded(err error) bool   { return GetCode(err) == CodeDeadlineExceeded }
func IsCanceled(err error) bool           { return GetCode(err) == CodeCanceled }
func IsFailedPrecondition(err error) bool { return GetCode(err) == CodeFailedPrecondition }
func IsResourceExhausted(err error) bool  { return GetCode(err) == CodeResourceExhausted }
