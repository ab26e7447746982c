package platform

import "context"

// API is the platform surface the dispatch flow consumes. *Client is
// the production implementation; Mock serves tests, and WithTracing
// layers spans over either.
type API interface {
	// UserByExternalID searches for users by linked external identity.
	UserByExternalID(ctx context.Context, externalID int64) ([]User, error)

	// TemplateByName fetches a template by organization and name.
	TemplateByName(ctx context.Context, org, name string) (*Template, error)

	// TemplateVersionPresets fetches the presets of a template version.
	TemplateVersionPresets(ctx context.Context, versionID string) ([]Preset, error)

	// ListTasks fetches all tasks owned by a user.
	ListTasks(ctx context.Context, owner string) ([]Task, error)

	// Task fetches a single task by its stable id.
	Task(ctx context.Context, owner, taskID string) (*Task, error)

	// TaskByName finds an owner's task by name.
	// Returns NOT_FOUND when no task has that name.
	TaskByName(ctx context.Context, owner, name string) (*Task, error)

	// CreateTask creates a task and returns it with its assigned id.
	CreateTask(ctx context.Context, owner string, req CreateTaskRequest) (*Task, error)

	// SendInput delivers a prompt to an existing task.
	SendInput(ctx context.Context, owner, taskID, input string) error
}

var _ API = (*Client)(nil)
