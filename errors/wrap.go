package errors

import (
	"context"
	"errors"
	"fmt"
)

// Wrap wraps an error with additional context while preserving the error chain.
// If err is nil, Wrap returns nil.
// If err is already an *Error, its code, category, and remote diagnostics
// are preserved under the new message.
// Context deadline and cancellation errors map to TIMEOUT and CANCELED.
// Anything else becomes an Internal error wrapping the original.
func Wrap(err error, message string, opts ...Option) *Error {
	if err == nil {
		return nil
	}

	var bridgeErr *Error
	if errors.As(err, &bridgeErr) {
		wrapped := &Error{
			code:       bridgeErr.code,
			category:   bridgeErr.category,
			message:    message,
			cause:      err,
			details:    bridgeErr.Details(),
			statusCode: bridgeErr.statusCode,
			body:       bridgeErr.body,
			taskID:     bridgeErr.taskID,
		}
		for _, opt := range opts {
			opt(wrapped)
		}
		return wrapped
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return New(ErrCodeTimeout, message, append(opts, WithCause(err))...)
	}
	if errors.Is(err, context.Canceled) {
		return New(ErrCodeCanceled, message, append(opts, WithCause(err))...)
	}

	return New(ErrCodeInternal, message, append(opts, WithCause(err))...)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error with a specific error code.
func WrapWithCode(err error, code ErrorCode, message string, opts ...Option) *Error {
	if err == nil {
		return nil
	}
	opts = append(opts, WithCause(err))
	return New(code, message, opts...)
}

// AsError attempts to extract an *Error from an error chain.
// Returns nil if none is found.
func AsError(err error) *Error {
	var bridgeErr *Error
	if errors.As(err, &bridgeErr) {
		return bridgeErr
	}
	return nil
}

// Is checks if any error in the chain has the given error code.
func Is(err error, code ErrorCode) bool {
	var bridgeErr *Error
	if errors.As(err, &bridgeErr) {
		return bridgeErr.code == code
	}
	return false
}

// IsCategory checks if any error in the chain has the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var bridgeErr *Error
	if errors.As(err, &bridgeErr) {
		return bridgeErr.category == category
	}
	return false
}

// IsRemote checks if the error blames the deployment platform.
func IsRemote(err error) bool {
	return IsCategory(err, CategoryRemote)
}

// IsConfig checks if the error is a local invocation-input failure.
func IsConfig(err error) bool {
	return IsCategory(err, CategoryConfig)
}

// Code extracts the error code from an error, if available.
// Returns empty string if err is not an *Error.
func Code(err error) ErrorCode {
	var bridgeErr *Error
	if errors.As(err, &bridgeErr) {
		return bridgeErr.code
	}
	return ""
}

// Category extracts the error category from an error, if available.
// Returns empty string if err is not an *Error.
func Category(err error) ErrorCategory {
	var bridgeErr *Error
	if errors.As(err, &bridgeErr) {
		return bridgeErr.category
	}
	return ""
}

// StatusCode extracts the originating HTTP status from an error chain.
// Returns zero if no status was recorded.
func StatusCode(err error) int {
	var bridgeErr *Error
	if errors.As(err, &bridgeErr) {
		return bridgeErr.statusCode
	}
	return 0
}

// ResponseBody extracts the raw response payload from an error chain.
// Returns empty string if none was recorded.
func ResponseBody(err error) string {
	var bridgeErr *Error
	if errors.As(err, &bridgeErr) {
		return bridgeErr.body
	}
	return ""
}

// GetDetails extracts detail pairs from an error.
// Returns nil if err is not an *Error.
func GetDetails(err error) map[string]string {
	var bridgeErr *Error
	if errors.As(err, &bridgeErr) {
		return bridgeErr.Details()
	}
	return nil
}

// Cause returns the root cause of the error chain.
func Cause(err error) error {
	for {
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		inner := unwrapper.Unwrap()
		if inner == nil {
			return err
		}
		err = inner
	}
}
