package tasks

import (
	"context"
	"time"

	"github.com/issueops/taskbridge/errors"
	"github.com/issueops/taskbridge/logging"
	"github.com/issueops/taskbridge/platform"
)

const (
	// PollInterval is the fixed pause between readiness checks.
	PollInterval = 2 * time.Second

	// DefaultReadyTimeout bounds a general readiness wait.
	DefaultReadyTimeout = 2 * time.Minute

	// ExistingTaskReadyTimeout bounds the wait for an existing task
	// that is not active yet. Cold environments can take many minutes
	// to provision.
	ExistingTaskReadyTimeout = 20 * time.Minute
)

// Gateway is the platform capability the orchestrator needs.
// *platform.Client satisfies it.
type Gateway interface {
	TaskByName(ctx context.Context, owner, name string) (*platform.Task, error)
	Task(ctx context.Context, owner, taskID string) (*platform.Task, error)
	CreateTask(ctx context.Context, owner string, req platform.CreateTaskRequest) (*platform.Task, error)
	SendInput(ctx context.Context, owner, taskID, input string) error
}

// Orchestrator runs the get-or-create-or-resume protocol against a
// Gateway.
type Orchestrator struct {
	gw    Gateway
	clock Clock
	log   *logging.Logger

	pollInterval    time.Duration
	readyTimeout    time.Duration
	existingTimeout time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces the system clock, for tests.
func WithClock(c Clock) Option {
	return func(o *Orchestrator) {
		o.clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// WithPollInterval overrides the pause between readiness checks.
func WithPollInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.pollInterval = d
	}
}

// WithReadyTimeout overrides the general readiness budget.
func WithReadyTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.readyTimeout = d
	}
}

// WithExistingReadyTimeout overrides the budget for waits on existing
// tasks.
func WithExistingReadyTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.existingTimeout = d
	}
}

// NewOrchestrator creates an orchestrator over a gateway.
func NewOrchestrator(gw Gateway, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gw:              gw,
		clock:           RealClock(),
		log:             logging.New().WithComponent("tasks"),
		pollInterval:    PollInterval,
		readyTimeout:    DefaultReadyTimeout,
		existingTimeout: ExistingTaskReadyTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// EnsureRequest describes the task one dispatch run needs.
type EnsureRequest struct {
	// OwnerName is the platform username owning the task.
	OwnerName string

	// TaskName is the idempotency key, usually from DeriveName.
	TaskName string

	// TemplateVersionID selects what to build if the task must be
	// created.
	TemplateVersionID string

	// PresetID optionally selects a preset on the create path.
	// Empty means none.
	PresetID string

	// Prompt is the work item to deliver.
	Prompt string
}

// Validate checks the request before any remote call.
func (r *EnsureRequest) Validate() error {
	if r.OwnerName == "" {
		return errors.Validation("task owner must not be empty")
	}
	if r.TaskName == "" {
		return errors.Validation("task name must not be empty")
	}
	if r.TemplateVersionID == "" {
		return errors.Validation("template version id must not be empty")
	}
	if r.Prompt == "" {
		return errors.Validation("prompt must not be empty")
	}
	return nil
}

// EnsureResult is the outcome of EnsureRunning.
type EnsureResult struct {
	// Task is the task the prompt was delivered to (or created with).
	Task *platform.Task

	// Created reports whether this run created the task. A reused
	// task, however long it had to be waited on, is not "created".
	Created bool
}

// EnsureRunning finds the task carrying the request's name and
// delivers the prompt to it, creating the task when it does not exist.
// Lookup failures other than absence abort; a transport error is never
// treated as "no such task".
func (o *Orchestrator) EnsureRunning(ctx context.Context, req EnsureRequest) (*EnsureResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := o.gw.TaskByName(ctx, req.OwnerName, req.TaskName)
	switch {
	case err == nil:
		return o.resume(ctx, req, existing)
	case errors.Is(err, errors.ErrCodeNotFound):
		return o.create(ctx, req)
	default:
		return nil, err
	}
}

// resume delivers the prompt to an existing task, waiting for
// readiness first when its environment is not active.
func (o *Orchestrator) resume(ctx context.Context, req EnsureRequest, task *platform.Task) (*EnsureResult, error) {
	o.log.TaskReused(task.Name, task.ID, task.Status.String())

	if task.Status != platform.StatusActive {
		ready, err := o.WaitUntilReady(ctx, req.OwnerName, task.ID, o.existingTimeout)
		if err != nil {
			return nil, err
		}
		task = ready
	}

	if err := o.gw.SendInput(ctx, req.OwnerName, task.ID, req.Prompt); err != nil {
		return nil, err
	}
	o.log.PromptSent(task.ID, len(req.Prompt))

	return &EnsureResult{Task: task, Created: false}, nil
}

// create makes the task with the prompt embedded. The platform
// delivers the prompt itself once the task starts, so this path does
// not wait for readiness.
func (o *Orchestrator) create(ctx context.Context, req EnsureRequest) (*EnsureResult, error) {
	created, err := o.gw.CreateTask(ctx, req.OwnerName, platform.CreateTaskRequest{
		Name:                    req.TaskName,
		TemplateVersionID:       req.TemplateVersionID,
		TemplateVersionPresetID: req.PresetID,
		Input:                   req.Prompt,
	})
	if err != nil {
		return nil, err
	}
	o.log.TaskCreated(created.Name, created.ID)

	return &EnsureResult{Task: created, Created: true}, nil
}
