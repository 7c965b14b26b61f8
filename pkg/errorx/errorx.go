// Package errorx provides business errors that carry a numeric code and a
// user-facing message while still wrapping the underlying cause.
package errorx

import (
	"errors"
	"fmt"
)

// CodeError is an error with a business code.
// It supports %w style wrapping and works with errors.Is / errors.As.
type CodeError struct {
	Code  int    // business code
	Msg   string // user-facing message
	cause error  // wrapped cause, never shown to clients
}

// Error returns "msg: cause" when a cause is present, otherwise msg.
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *CodeError) Unwrap() error {
	return e.cause
}

// New creates a CodeError without a cause.
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf creates a CodeError with a formatted message.
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap attaches a code and message to err.
// Usage: errorx.Wrap(err, CodeNotFound, "user not found")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   msg,
		cause: err,
	}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// GetCode extracts the business code, defaulting to CodeServerBusy.
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// Business codes.
const (
	CodeSuccess          = 1000
	CodeInvalidParam     = 1001
	CodeUserExist        = 1002
	CodeUserNotExist     = 1003
	CodeInvalidPassword  = 1004
	CodeServerBusy       = 1005
	CodeUnauthorized     = 1006
	CodeForbidden        = 1007
	CodeNotFound         = 1008
	CodeUserInactive     = 1009
	CodeDBError          = 1010
	CodeCacheError       = 1011
	CodeUnknownRoom      = 1020
	CodeNotAuthenticated = 1021
	CodeBlocked          = 1022
	CodeAlreadyBound     = 1023
	CodeVerifyFailed     = 1024
)

// Shared instances, usable directly or as errors.Is targets.
var (
	ErrInvalidParam = New(CodeInvalidParam, "Sorğu parametrləri yanlışdır")
	ErrServerBusy   = New(CodeServerBusy, "Xəta baş verdi")
	ErrForbidden    = New(CodeForbidden, "İcazə yoxdur")
)

// IsNotFound reports whether err is a not-found error, including
// gorm.ErrRecordNotFound surfaced without wrapping.
func IsNotFound(err error) bool {
	var codeErr *CodeError
	if errors.As(err, &codeErr) && codeErr.Code == CodeNotFound {
		return true
	}
	return err != nil && err.Error() == "record not found"
}
