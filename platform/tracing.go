package platform

import (
	"context"
	"net/http"

	"github.com/issueops/taskbridge/errors"
	"github.com/issueops/taskbridge/telemetry"
)

// TracingAPI wraps an API so every operation emits an OpenTelemetry
// span. Spans record the method, path shape, and outcome status;
// response bodies only appear when the tracer runs in debug mode.
type TracingAPI struct {
	api API
}

// WithTracing wraps an API with tracing.
func WithTracing(api API) API {
	return &TracingAPI{api: api}
}

// spanStatus derives the span's status attribute from an operation's
// outcome. Errors without remote diagnostics report zero, which the
// span builder omits.
func spanStatus(err error, success int) int {
	if err == nil {
		return success
	}
	return errors.StatusCode(err)
}

// UserByExternalID implements API.
func (t *TracingAPI) UserByExternalID(ctx context.Context, externalID int64) ([]User, error) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartRequestSpan(ctx, "user_search")
	users, err := t.api.UserByExternalID(ctx, externalID)
	tracer.EndRequestSpan(span, telemetry.RequestSpanOptions{
		Method: http.MethodGet,
		Path:   "/users",
		Status: spanStatus(err, http.StatusOK),
		Body:   errors.ResponseBody(err),
	}, err)
	return users, err
}

// TemplateByName implements API.
func (t *TracingAPI) TemplateByName(ctx context.Context, org, name string) (*Template, error) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartRequestSpan(ctx, "template_get")
	tpl, err := t.api.TemplateByName(ctx, org, name)
	tracer.EndRequestSpan(span, telemetry.RequestSpanOptions{
		Method: http.MethodGet,
		Path:   "/organizations/" + org + "/templates/" + name,
		Status: spanStatus(err, http.StatusOK),
		Body:   errors.ResponseBody(err),
	}, err)
	return tpl, err
}

// TemplateVersionPresets implements API.
func (t *TracingAPI) TemplateVersionPresets(ctx context.Context, versionID string) ([]Preset, error) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartRequestSpan(ctx, "preset_list")
	presets, err := t.api.TemplateVersionPresets(ctx, versionID)
	tracer.EndRequestSpan(span, telemetry.RequestSpanOptions{
		Method: http.MethodGet,
		Path:   "/templateversions/" + versionID + "/presets",
		Status: spanStatus(err, http.StatusOK),
		Body:   errors.ResponseBody(err),
	}, err)
	return presets, err
}

// ListTasks implements API.
func (t *TracingAPI) ListTasks(ctx context.Context, owner string) ([]Task, error) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartRequestSpan(ctx, "task_list")
	tasks, err := t.api.ListTasks(ctx, owner)
	tracer.EndRequestSpan(span, telemetry.RequestSpanOptions{
		Method: http.MethodGet,
		Path:   "/tasks",
		Status: spanStatus(err, http.StatusOK),
		Body:   errors.ResponseBody(err),
	}, err)
	return tasks, err
}

// Task implements API.
func (t *TracingAPI) Task(ctx context.Context, owner, taskID string) (*Task, error) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartRequestSpan(ctx, "task_get")
	task, err := t.api.Task(ctx, owner, taskID)
	tracer.EndRequestSpan(span, telemetry.RequestSpanOptions{
		Method: http.MethodGet,
		Path:   "/tasks/" + owner + "/" + taskID,
		Status: spanStatus(err, http.StatusOK),
		Body:   errors.ResponseBody(err),
	}, err)
	return task, err
}

// TaskByName implements API.
func (t *TracingAPI) TaskByName(ctx context.Context, owner, name string) (*Task, error) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartRequestSpan(ctx, "task_by_name")
	task, err := t.api.TaskByName(ctx, owner, name)
	tracer.EndRequestSpan(span, telemetry.RequestSpanOptions{
		Method: http.MethodGet,
		Path:   "/tasks",
		Status: spanStatus(err, http.StatusOK),
		Body:   errors.ResponseBody(err),
	}, err)
	return task, err
}

// CreateTask implements API.
func (t *TracingAPI) CreateTask(ctx context.Context, owner string, req CreateTaskRequest) (*Task, error) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartRequestSpan(ctx, "task_create")
	task, err := t.api.CreateTask(ctx, owner, req)
	tracer.EndRequestSpan(span, telemetry.RequestSpanOptions{
		Method: http.MethodPost,
		Path:   "/tasks/" + owner,
		Status: spanStatus(err, http.StatusCreated),
		Body:   errors.ResponseBody(err),
	}, err)
	return task, err
}

// SendInput implements API.
func (t *TracingAPI) SendInput(ctx context.Context, owner, taskID, input string) error {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartRequestSpan(ctx, "task_send")
	err := t.api.SendInput(ctx, owner, taskID, input)
	tracer.EndRequestSpan(span, telemetry.RequestSpanOptions{
		Method: http.MethodPost,
		Path:   "/tasks/" + owner + "/" + taskID + "/send",
		Status: spanStatus(err, http.StatusNoContent),
		Body:   errors.ResponseBody(err),
	}, err)
	return err
}

var _ API = (*TracingAPI)(nil)
