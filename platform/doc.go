// Package platform provides a typed HTTP client for the deployment
// platform's REST API.
//
// The client covers the handful of resources the dispatch flow touches:
// users, templates, template version presets, and tasks. Every request
// carries the session token and a per-invocation correlation id, and
// every response body is validated before it reaches a caller.
//
// # Error Translation
//
// Non-2xx responses never surface as raw HTTP artifacts. The client
// maps them onto the structured error taxonomy:
//
//	404 → NOT_FOUND
//	401 → UNAUTHORIZED
//	403 → FORBIDDEN
//	409 → CONFLICT
//	other non-2xx, malformed bodies, network failures → TRANSPORT
//
// All of these carry the originating status code and the raw response
// body for diagnostics.
//
// # Usage
//
//	client, err := platform.NewClient(platform.Config{
//	    BaseURL:      "https://platform.example.com",
//	    SessionToken: token,
//	})
//	if err != nil {
//	    return err
//	}
//
//	task, err := client.TaskByName(ctx, "alice", "gh-42")
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // create it
//	}
//
// The API interface abstracts the client for callers that want to
// substitute a Mock in tests, and WithTracing decorates any API with
// OpenTelemetry spans.
package platform
