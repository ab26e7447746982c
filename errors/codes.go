package errors

// ErrorCategory classifies errors by where the failure originated.
type ErrorCategory string

// Error categories determine how a failure is reported to the invoker.
const (
	// CategoryConfig indicates invalid or missing invocation input,
	// detected locally before any network call is made.
	CategoryConfig ErrorCategory = "config"

	// CategoryRemote indicates the deployment platform rejected the
	// request or its managed resource ended up in a state that cannot
	// accept work. Examples: unknown user, duplicate identity link,
	// task stuck in error state.
	CategoryRemote ErrorCategory = "remote"

	// CategoryTransport indicates the exchange itself failed: network
	// errors, unexpected HTTP statuses, or response bodies that do not
	// match the documented schema.
	CategoryTransport ErrorCategory = "transport"

	// CategoryInternal indicates unexpected errors or bugs on our side.
	CategoryInternal ErrorCategory = "internal"
)

// String returns the string representation of the category.
func (c ErrorCategory) String() string {
	return string(c)
}

// IsRemote returns true if the category blames the deployment platform.
func (c ErrorCategory) IsRemote() bool {
	return c == CategoryRemote
}

// ErrorCode identifies specific failure types within categories.
type ErrorCode string

// Error codes for the failure scenarios of a dispatch run.
const (
	// Config errors
	ErrCodeValidation ErrorCode = "VALIDATION" // Bad or missing invocation input

	// Remote errors
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"    // Resource does not exist on the platform
	ErrCodeConflict     ErrorCode = "CONFLICT"     // Remote state violates a uniqueness invariant
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED" // Session token rejected
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"    // Authorization denied
	ErrCodeTaskFailed   ErrorCode = "TASK_FAILED"  // Task reached the error status; terminal
	ErrCodeTimeout      ErrorCode = "TIMEOUT"      // Task never became ready within the poll budget

	// Transport errors
	ErrCodeTransport ErrorCode = "TRANSPORT" // Request failed or response violated the schema

	// Internal errors
	ErrCodeInternal ErrorCode = "INTERNAL" // Unexpected internal error
	ErrCodeCanceled ErrorCode = "CANCELED" // Run canceled by signal or deadline
)

// String returns the string representation of the error code.
func (c ErrorCode) String() string {
	return string(c)
}

// DefaultCategory returns the default category for an error code.
func (c ErrorCode) DefaultCategory() ErrorCategory {
	switch c {
	case ErrCodeValidation:
		return CategoryConfig

	case ErrCodeNotFound, ErrCodeConflict, ErrCodeUnauthorized, ErrCodeForbidden,
		ErrCodeTaskFailed, ErrCodeTimeout:
		return CategoryRemote

	case ErrCodeTransport:
		return CategoryTransport

	case ErrCodeInternal, ErrCodeCanceled:
		return CategoryInternal

	default:
		return CategoryInternal
	}
}

// codeDescriptions provides human-readable descriptions for error codes.
var codeDescriptions = map[ErrorCode]string{
	ErrCodeValidation:   "invalid invocation input",
	ErrCodeNotFound:     "resource not found",
	ErrCodeConflict:     "conflicting remote state",
	ErrCodeUnauthorized: "authentication required",
	ErrCodeForbidden:    "access denied",
	ErrCodeTaskFailed:   "task entered error state",
	ErrCodeTimeout:      "task did not become ready in time",
	ErrCodeTransport:    "platform request failed",
	ErrCodeInternal:     "internal error",
	ErrCodeCanceled:     "run canceled",
}

// Description returns a human-readable description for the error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}
