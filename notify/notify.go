// Package notify posts a pointer to the dispatched task back to the
// issue that triggered it.
//
// The sink is idempotent the same way the orchestrator is: one issue
// owns at most one comment. Upsert finds the comment this tool wrote
// earlier (newest first, identified by a fixed marker prefix) and
// rewrites it in place; only when none exists does it create one.
// Re-dispatching an issue therefore edits the existing pointer instead
// of burying the thread in duplicates.
package notify

import (
	"context"
	"fmt"

	"github.com/issueops/taskbridge/errors"
)

// IssueRef addresses one issue in one repository.
type IssueRef struct {
	// Owner is the account or organization owning the repository.
	Owner string

	// Repo is the repository name.
	Repo string

	// Number is the issue number.
	Number int
}

// Validate checks the reference is complete.
func (r *IssueRef) Validate() error {
	if r.Owner == "" || r.Repo == "" {
		return errors.Validation("issue reference needs both owner and repository")
	}
	if r.Number <= 0 {
		return errors.Validationf("issue number must be positive, got %d", r.Number)
	}
	return nil
}

// String renders the reference as owner/repo#number.
func (r IssueRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// Notifier publishes a task URL for an issue.
type Notifier interface {
	// Upsert writes or rewrites the single comment this tool owns on
	// the issue, pointing at the task URL.
	Upsert(ctx context.Context, ref IssueRef, taskURL string) error
}
