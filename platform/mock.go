package platform

import (
	"context"
	"sync"

	"github.com/issueops/taskbridge/errors"
)

// Mock is a configurable API implementation for tests. Set the Func
// field for each operation a test exercises; unconfigured operations
// fail loudly so a test never passes on an accidental call path.
type Mock struct {
	mu sync.Mutex

	UserByExternalIDFunc       func(ctx context.Context, externalID int64) ([]User, error)
	TemplateByNameFunc         func(ctx context.Context, org, name string) (*Template, error)
	TemplateVersionPresetsFunc func(ctx context.Context, versionID string) ([]Preset, error)
	ListTasksFunc              func(ctx context.Context, owner string) ([]Task, error)
	TaskFunc                   func(ctx context.Context, owner, taskID string) (*Task, error)
	TaskByNameFunc             func(ctx context.Context, owner, name string) (*Task, error)
	CreateTaskFunc             func(ctx context.Context, owner string, req CreateTaskRequest) (*Task, error)
	SendInputFunc              func(ctx context.Context, owner, taskID, input string) error

	calls      map[string]int
	lastCreate CreateTaskRequest
	lastInput  string
}

// NewMock creates an empty mock.
func NewMock() *Mock {
	return &Mock{calls: make(map[string]int)}
}

// Calls returns how many times the named operation was invoked.
func (m *Mock) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// LastCreateRequest returns the most recent CreateTask request body.
func (m *Mock) LastCreateRequest() CreateTaskRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCreate
}

// LastInput returns the most recent SendInput prompt.
func (m *Mock) LastInput() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastInput
}

func (m *Mock) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
}

// UserByExternalID implements API.
func (m *Mock) UserByExternalID(ctx context.Context, externalID int64) ([]User, error) {
	m.record("UserByExternalID")
	if m.UserByExternalIDFunc != nil {
		return m.UserByExternalIDFunc(ctx, externalID)
	}
	return nil, errors.Internal("mock: UserByExternalID not configured")
}

// TemplateByName implements API.
func (m *Mock) TemplateByName(ctx context.Context, org, name string) (*Template, error) {
	m.record("TemplateByName")
	if m.TemplateByNameFunc != nil {
		return m.TemplateByNameFunc(ctx, org, name)
	}
	return nil, errors.Internal("mock: TemplateByName not configured")
}

// TemplateVersionPresets implements API.
func (m *Mock) TemplateVersionPresets(ctx context.Context, versionID string) ([]Preset, error) {
	m.record("TemplateVersionPresets")
	if m.TemplateVersionPresetsFunc != nil {
		return m.TemplateVersionPresetsFunc(ctx, versionID)
	}
	return nil, errors.Internal("mock: TemplateVersionPresets not configured")
}

// ListTasks implements API.
func (m *Mock) ListTasks(ctx context.Context, owner string) ([]Task, error) {
	m.record("ListTasks")
	if m.ListTasksFunc != nil {
		return m.ListTasksFunc(ctx, owner)
	}
	return nil, errors.Internal("mock: ListTasks not configured")
}

// Task implements API.
func (m *Mock) Task(ctx context.Context, owner, taskID string) (*Task, error) {
	m.record("Task")
	if m.TaskFunc != nil {
		return m.TaskFunc(ctx, owner, taskID)
	}
	return nil, errors.Internal("mock: Task not configured")
}

// TaskByName implements API.
func (m *Mock) TaskByName(ctx context.Context, owner, name string) (*Task, error) {
	m.record("TaskByName")
	if m.TaskByNameFunc != nil {
		return m.TaskByNameFunc(ctx, owner, name)
	}
	return nil, errors.Internal("mock: TaskByName not configured")
}

// CreateTask implements API.
func (m *Mock) CreateTask(ctx context.Context, owner string, req CreateTaskRequest) (*Task, error) {
	m.mu.Lock()
	m.calls["CreateTask"]++
	m.lastCreate = req
	m.mu.Unlock()
	if m.CreateTaskFunc != nil {
		return m.CreateTaskFunc(ctx, owner, req)
	}
	return nil, errors.Internal("mock: CreateTask not configured")
}

// SendInput implements API.
func (m *Mock) SendInput(ctx context.Context, owner, taskID, input string) error {
	m.mu.Lock()
	m.calls["SendInput"]++
	m.lastInput = input
	m.mu.Unlock()
	if m.SendInputFunc != nil {
		return m.SendInputFunc(ctx, owner, taskID, input)
	}
	return errors.Internal("mock: SendInput not configured")
}

var _ API = (*Mock)(nil)
