// Package tasks drives a remote task to a runnable state and delivers
// a prompt to it, idempotently.
//
// The task name is the idempotency key: DeriveName maps an issue to a
// stable name, and EnsureRunning either finds the task that already
// carries it or creates one. Re-running the same dispatch touches the
// same task instead of piling up duplicates.
//
// # Get, Create, or Resume
//
// EnsureRunning takes exactly one of two paths:
//
//   - The task exists: wait for it to become ready if its environment
//     is not active (it may be paused, or still riding a provisioning
//     cycle), then send the prompt to its stable id. Created = false.
//   - The task does not exist: create it with the prompt embedded, so
//     the platform delivers the prompt once the task starts. No wait
//     on this path. Created = true.
//
// Anything else aborts the run. The orchestrator never rolls back: a
// task left initializing after a failed run belongs to the platform,
// not to us.
//
// # Ready-Wait
//
// The platform has no push channel for task state, so WaitUntilReady
// polls: fetch the task, classify, sleep a fixed interval, re-check
// the elapsed time against a hard budget. A task is ready only when
// status is active and its current state is idle. The error status is
// terminal and fails the wait immediately; every poll failure aborts
// rather than retries. The Clock interface makes the loop
// deterministic under test.
package tasks
