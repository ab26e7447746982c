package platform

import (
	"fmt"
)

// TaskStatus is the platform-reported lifecycle status of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is queued but not yet provisioning.
	StatusPending TaskStatus = "pending"

	// StatusInitializing indicates the task's environment is being built.
	StatusInitializing TaskStatus = "initializing"

	// StatusActive indicates the task's environment is up.
	StatusActive TaskStatus = "active"

	// StatusPaused indicates the task has been suspended by the platform
	// or its owner and must be resumed before accepting input.
	StatusPaused TaskStatus = "paused"

	// StatusUnknown indicates the platform could not determine the status.
	StatusUnknown TaskStatus = "unknown"

	// StatusError indicates the task failed on the remote side.
	// This is terminal; the task will not recover on its own.
	StatusError TaskStatus = "error"
)

// String returns the string representation of the status.
func (s TaskStatus) String() string {
	return string(s)
}

// Valid reports whether the status is a recognized member of the enum.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInitializing, StatusActive, StatusPaused, StatusUnknown, StatusError:
		return true
	}
	return false
}

// TaskState is what an active task is currently doing.
type TaskState string

const (
	// StateIdle indicates the task is waiting for input.
	StateIdle TaskState = "idle"

	// StateWorking indicates the task is processing a previous input.
	StateWorking TaskState = "working"

	// StateComplete indicates the task finished its last work item.
	StateComplete TaskState = "complete"

	// StateFailed indicates the task's last work item failed.
	StateFailed TaskState = "failed"
)

// String returns the string representation of the state.
func (s TaskState) String() string {
	return string(s)
}

// Valid reports whether the state is a recognized member of the enum.
func (s TaskState) Valid() bool {
	switch s {
	case StateIdle, StateWorking, StateComplete, StateFailed:
		return true
	}
	return false
}

// CurrentState is the inner state object a task reports once its
// environment has started. Tasks that have not started yet omit it.
type CurrentState struct {
	State TaskState `json:"state"`
}

// User is a platform account.
type User struct {
	// ID is the stable platform-assigned identifier.
	ID string `json:"id"`

	// Username is the login name, used as the task owner segment
	// in task URLs and API paths.
	Username string `json:"username"`

	// ExternalID is the numeric id of the linked external identity,
	// zero when the account has none.
	ExternalID int64 `json:"external_id,omitempty"`
}

// Validate checks that the user has the fields callers rely on.
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user missing id")
	}
	if u.Username == "" {
		return fmt.Errorf("user %s missing username", u.ID)
	}
	return nil
}

// Template is a task blueprint owned by an organization.
type Template struct {
	// ID is the stable platform-assigned identifier.
	ID string `json:"id"`

	// Name is the human-chosen template name, unique per organization.
	Name string `json:"name"`

	// OrganizationName is the owning organization.
	OrganizationName string `json:"organization_name,omitempty"`

	// ActiveVersionID identifies the template version new tasks are
	// built from. Presets hang off this version.
	ActiveVersionID string `json:"active_version_id"`
}

// Validate checks that the template has the fields callers rely on.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("template missing id")
	}
	if t.Name == "" {
		return fmt.Errorf("template %s missing name", t.ID)
	}
	if t.ActiveVersionID == "" {
		return fmt.Errorf("template %s missing active version", t.Name)
	}
	return nil
}

// Preset is a named parameter bundle attached to a template version.
type Preset struct {
	// ID is the stable platform-assigned identifier.
	ID string `json:"id"`

	// Name is the human-chosen preset name.
	Name string `json:"name"`

	// IsDefault marks the preset the platform applies when a create
	// request names none.
	IsDefault bool `json:"is_default"`
}

// Validate checks that the preset has the fields callers rely on.
func (p *Preset) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("preset missing id")
	}
	if p.Name == "" {
		return fmt.Errorf("preset %s missing name", p.ID)
	}
	return nil
}

// Task is a remote unit of work created from a template. Its status
// and current state transition asynchronously on the platform side;
// this client only ever observes them.
type Task struct {
	// ID is the stable platform-assigned identifier. All follow-up
	// operations address the task by this, never by name.
	ID string `json:"id"`

	// Name is the human-chosen name, unique per owner. Dispatch uses
	// it as the idempotency key for get-or-create.
	Name string `json:"name"`

	// OwnerName is the username of the owning account.
	OwnerName string `json:"owner_name"`

	// TemplateID identifies the template the task was created from.
	TemplateID string `json:"template_id,omitempty"`

	// Status is the platform-reported lifecycle status.
	Status TaskStatus `json:"status"`

	// CurrentState is what the task is doing right now, absent until
	// the task's environment has started.
	CurrentState *CurrentState `json:"current_state,omitempty"`
}

// Validate checks that the task has the fields callers rely on and
// that its enums are recognized.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task missing id")
	}
	if t.Name == "" {
		return fmt.Errorf("task %s missing name", t.ID)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("task %s has unrecognized status %q", t.Name, t.Status)
	}
	if t.CurrentState != nil && !t.CurrentState.State.Valid() {
		return fmt.Errorf("task %s has unrecognized state %q", t.Name, t.CurrentState.State)
	}
	return nil
}

// Ready reports whether the task can accept new input: the environment
// is active and nothing is running in it.
func (t *Task) Ready() bool {
	return t.Status == StatusActive && t.CurrentState != nil && t.CurrentState.State == StateIdle
}

// StateString renders the current state for logs, "none" when the
// task has not reported one.
func (t *Task) StateString() string {
	if t.CurrentState == nil {
		return "none"
	}
	return string(t.CurrentState.State)
}

// CreateTaskRequest is the body for creating a task.
type CreateTaskRequest struct {
	// Name is the task name, unique per owner.
	Name string `json:"name"`

	// TemplateVersionID selects the template version to build from.
	TemplateVersionID string `json:"template_version_id"`

	// TemplateVersionPresetID optionally selects a preset of that
	// version. Empty means the platform applies no preset.
	TemplateVersionPresetID string `json:"template_version_preset_id,omitempty"`

	// Input is the first prompt, delivered once the task starts.
	Input string `json:"input"`
}

// Validate checks the request before it goes on the wire.
func (r *CreateTaskRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("create request missing name")
	}
	if r.TemplateVersionID == "" {
		return fmt.Errorf("create request missing template version id")
	}
	if r.Input == "" {
		return fmt.Errorf("create request missing input")
	}
	return nil
}

// SendInputRequest is the body for sending a prompt to a running task.
type SendInputRequest struct {
	Input string `json:"input"`
}
