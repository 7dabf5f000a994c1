package convoprint

import (
	"errors"
	"fmt"
)

// Application error codes. These map failures to stable, machine-readable
// categories that callers can branch on without string matching.
const (
	EINVALID       = "invalid"       // input failed validation (bad URL, bad render input)
	ENOTFOUND      = "not_found"     // entity does not exist
	EUNAVAILABLE   = "unavailable"   // upstream fetch failed; recoverable by a later stage
	EUNPROCESSABLE = "unprocessable" // every extraction strategy exhausted
	ETIMEOUT       = "timeout"       // a rendering deadline elapsed
	EINTERNAL      = "internal"      // infrastructure failure (browser start/crash, PDF print)
)

// Error represents an application error with a machine-readable code,
// a human-readable message, and optional diagnostic detail. Detail is
// only populated when debug diagnostics are enabled and is never part
// of the default error string, so it cannot leak into user-facing output.
type Error struct {
	// Code is one of the E* constants above.
	Code string

	// Message is a human-readable description of the failure.
	Message string

	// Detail carries optional diagnostic context (content type, byte
	// counts, body samples). Empty unless debug diagnostics were
	// requested for the operation that produced the error.
	Detail string
}

// Error implements the error interface. Detail is intentionally omitted.
func (e *Error) Error() string {
	return fmt.Sprintf("convoprint error: code=%s message=%s", e.Code, e.Message)
}

// Errorf constructs an *Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps err and returns its application error code.
// Non-application errors report EINTERNAL; nil reports an empty string.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps err and returns its human-readable message.
// Non-application errors report a generic message so internal error
// strings are not exposed to callers by accident.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// ErrorDetail unwraps err and returns its diagnostic detail, if any.
func ErrorDetail(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return ""
}

// WithDetail returns a copy of err with diagnostic detail attached when
// err is an application error; otherwise err is returned unchanged.
func WithDetail(err error, detail string) error {
	var e *Error
	if errors.As(err, &e) {
		return &Error{Code: e.Code, Message: e.Message, Detail: detail}
	}
	return err
}
