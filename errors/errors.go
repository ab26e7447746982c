package errors

import (
	"fmt"
	"time"
)

// Error is the structured error used across taskbridge. It carries the
// failure code and category plus, for remote failures, the HTTP status
// and raw response payload that produced it.
type Error struct {
	code       ErrorCode
	category   ErrorCategory
	message    string
	cause      error
	details    map[string]string
	statusCode int    // HTTP status returned by the platform, if any
	body       string // raw response payload, if captured
	taskID     string // related task, if applicable
	timestamp  time.Time
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *Error) Code() ErrorCode {
	return e.code
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	return e.category
}

// StatusCode returns the HTTP status that produced this error, or zero
// when the failure never reached (or never got an answer from) the
// platform.
func (e *Error) StatusCode() int {
	return e.statusCode
}

// ResponseBody returns the raw response payload captured with the
// failure, or the empty string when none was available.
func (e *Error) ResponseBody() string {
	return e.body
}

// Details returns additional context as key-value pairs.
func (e *Error) Details() map[string]string {
	if e.details == nil {
		return make(map[string]string)
	}
	// Return a copy to prevent modification
	result := make(map[string]string, len(e.details))
	for k, v := range e.details {
		result[k] = v
	}
	return result
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Timestamp returns when the error occurred.
func (e *Error) Timestamp() time.Time {
	return e.timestamp
}

// TaskID returns the related task ID, if set.
func (e *Error) TaskID() string {
	return e.taskID
}

// Option is a functional option for configuring an Error.
type Option func(*Error)

// WithCategory overrides the default category.
func WithCategory(cat ErrorCategory) Option {
	return func(e *Error) {
		e.category = cat
	}
}

// WithStatusCode records the HTTP status that produced the error.
func WithStatusCode(status int) Option {
	return func(e *Error) {
		e.statusCode = status
	}
}

// WithResponseBody records the raw response payload.
func WithResponseBody(body string) Option {
	return func(e *Error) {
		e.body = body
	}
}

// WithDetail adds a detail key-value pair.
func WithDetail(key, value string) Option {
	return func(e *Error) {
		if e.details == nil {
			e.details = make(map[string]string)
		}
		e.details[key] = value
	}
}

// WithDetailMap adds multiple detail key-value pairs.
func WithDetailMap(m map[string]string) Option {
	return func(e *Error) {
		if e.details == nil {
			e.details = make(map[string]string)
		}
		for k, v := range m {
			e.details[k] = v
		}
	}
}

// WithTaskID sets the related task ID.
func WithTaskID(id string) Option {
	return func(e *Error) {
		e.taskID = id
	}
}

// WithTimestamp sets a custom timestamp.
func WithTimestamp(t time.Time) Option {
	return func(e *Error) {
		e.timestamp = t
	}
}

// WithCause sets the underlying cause.
func WithCause(cause error) Option {
	return func(e *Error) {
		e.cause = cause
	}
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string, opts ...Option) *Error {
	e := &Error{
		code:      code,
		category:  code.DefaultCategory(),
		message:   message,
		timestamp: time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Newf creates a new Error with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// FromCode creates an error with the default description for the code.
func FromCode(code ErrorCode, opts ...Option) *Error {
	return New(code, code.Description(), opts...)
}

// Validation creates an invocation input error.
func Validation(message string, opts ...Option) *Error {
	return New(ErrCodeValidation, message, opts...)
}

// Validationf creates an invocation input error with a formatted message.
func Validationf(format string, args ...interface{}) *Error {
	return New(ErrCodeValidation, fmt.Sprintf(format, args...))
}

// NotFound creates a not found error.
func NotFound(message string, opts ...Option) *Error {
	return New(ErrCodeNotFound, message, opts...)
}

// Conflict creates a conflict error.
func Conflict(message string, opts ...Option) *Error {
	return New(ErrCodeConflict, message, opts...)
}

// Unauthorized creates an unauthorized error.
func Unauthorized(message string, opts ...Option) *Error {
	return New(ErrCodeUnauthorized, message, opts...)
}

// Forbidden creates a forbidden error.
func Forbidden(message string, opts ...Option) *Error {
	return New(ErrCodeForbidden, message, opts...)
}

// Timeout creates a readiness timeout error.
func Timeout(message string, opts ...Option) *Error {
	return New(ErrCodeTimeout, message, opts...)
}

// Transport creates a transport error.
func Transport(message string, opts ...Option) *Error {
	return New(ErrCodeTransport, message, opts...)
}

// Internal creates an internal error.
func Internal(message string, opts ...Option) *Error {
	return New(ErrCodeInternal, message, opts...)
}

// TaskFailed creates a terminal task failure error.
func TaskFailed(taskID, reason string, opts ...Option) *Error {
	opts = append([]Option{WithTaskID(taskID)}, opts...)
	return New(ErrCodeTaskFailed, fmt.Sprintf("task %s failed: %s", taskID, reason), opts...)
}
