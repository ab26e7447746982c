package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/issueops/taskbridge/errors"
)

// ListTasks fetches all tasks owned by the given user.
func (c *Client) ListTasks(ctx context.Context, owner string) ([]Task, error) {
	path := "/tasks?q=" + url.QueryEscape("owner:"+owner)

	var tasks []Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	for i := range tasks {
		if err := tasks[i].Validate(); err != nil {
			return nil, malformed(http.MethodGet, path, err)
		}
	}
	return tasks, nil
}

// Task fetches a single task by its stable id.
func (c *Client) Task(ctx context.Context, owner, taskID string) (*Task, error) {
	path := fmt.Sprintf("/tasks/%s/%s", url.PathEscape(owner), url.PathEscape(taskID))

	var task Task
	if err := c.do(ctx, http.MethodGet, path, nil, &task); err != nil {
		return nil, err
	}
	if err := task.Validate(); err != nil {
		return nil, malformed(http.MethodGet, path, err)
	}
	return &task, nil
}

// TaskByName finds the task with the given name among the owner's
// tasks. The platform has no by-name lookup, so this lists and
// filters. Absence is NOT_FOUND, whether the list comes back without
// a match or the list endpoint itself reports 404 for the owner.
func (c *Client) TaskByName(ctx context.Context, owner, name string) (*Task, error) {
	tasks, err := c.ListTasks(ctx, owner)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return nil, errors.NotFound(
				fmt.Sprintf("task %q not found for owner %q", name, owner),
				errors.WithStatusCode(errors.StatusCode(err)),
				errors.WithCause(err),
			)
		}
		return nil, err
	}
	for i := range tasks {
		if tasks[i].Name == name {
			return &tasks[i], nil
		}
	}
	return nil, errors.NotFound(fmt.Sprintf("task %q not found for owner %q", name, owner))
}

// CreateTask creates a task for the owner. The platform assigns the
// id; the returned task carries it along with the initial status.
func (c *Client) CreateTask(ctx context.Context, owner string, req CreateTaskRequest) (*Task, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.Validation(err.Error())
	}
	path := "/tasks/" + url.PathEscape(owner)

	var task Task
	if err := c.do(ctx, http.MethodPost, path, &req, &task); err != nil {
		return nil, err
	}
	if err := task.Validate(); err != nil {
		return nil, malformed(http.MethodPost, path, err)
	}
	return &task, nil
}

// SendInput delivers a prompt to an existing task. The platform
// answers with no body on success.
func (c *Client) SendInput(ctx context.Context, owner, taskID, input string) error {
	if input == "" {
		return errors.Validation("input must not be empty")
	}
	path := fmt.Sprintf("/tasks/%s/%s/send", url.PathEscape(owner), url.PathEscape(taskID))

	return c.do(ctx, http.MethodPost, path, &SendInputRequest{Input: input}, nil)
}
