package tasks

import "fmt"

// DeriveName builds the task name for an issue. The mapping is pure:
// the same prefix and issue number always yield the same name, which
// is what makes the name usable as an idempotency key.
func DeriveName(prefix string, issueNumber int) string {
	return fmt.Sprintf("%s-%d", prefix, issueNumber)
}
