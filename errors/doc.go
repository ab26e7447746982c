// Package errors provides the structured error taxonomy for taskbridge.
// Every failure in a dispatch run is classified by code and category so
// the invoking environment gets one precise failure message, and remote
// failures keep the HTTP status and raw payload that produced them.
//
// # Error Categories
//
// Errors are classified into four categories:
//
//   - Config: Invalid invocation input, caught before any network call
//   - Remote: The deployment platform rejected the request or its task
//     cannot accept work (not found, conflict, task failed, never ready)
//   - Transport: The exchange itself failed (network, unexpected status,
//     schema violation in the response body)
//   - Internal: Unexpected errors indicating bugs
//
// # Failure Policy
//
// Any error aborts the entire run. There is no automatic retry anywhere
// in taskbridge; the only repeated operation is the readiness poll, which
// waits for remote state to change and still aborts on the first failure.
//
// # Usage
//
// Create a new error:
//
//	err := errors.NotFound("no user with external id 123")
//
// Capture remote diagnostics:
//
//	err := errors.Transport("listing tasks",
//	    errors.WithStatusCode(resp.StatusCode),
//	    errors.WithResponseBody(string(body)))
//
// Wrap an existing error with context:
//
//	wrapped := errors.Wrap(err, "resolving template")
//
// Check a code anywhere in the chain:
//
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // absence, not failure
//	}
package errors
