// Package bridge composes one dispatch run: resolve the task owner,
// resolve the template and preset, bring the task runnable, deliver
// the prompt, and report back to the issue and the workflow.
//
// Every step either succeeds or aborts the run. The single exception
// is the issue comment, which degrades to a warning because the task
// is already running by then.
package bridge

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/issueops/taskbridge/config"
	"github.com/issueops/taskbridge/errors"
	"github.com/issueops/taskbridge/logging"
	"github.com/issueops/taskbridge/notify"
	"github.com/issueops/taskbridge/platform"
	"github.com/issueops/taskbridge/resolve"
	"github.com/issueops/taskbridge/tasks"
	"github.com/issueops/taskbridge/telemetry"
)

// Deps holds the ports a run needs. Tests construct it directly with
// fakes; NewDeps wires the real implementations.
type Deps struct {
	// API is the deployment platform gateway.
	API platform.API

	// Orch drives task creation and reuse.
	Orch *tasks.Orchestrator

	// Notifier posts the task URL to the issue. Nil disables
	// commenting regardless of configuration.
	Notifier notify.Notifier

	// Log receives run progress.
	Log *logging.Logger

	// Events receives dispatch lifecycle events.
	Events telemetry.Exporter

	// RunID correlates logs, spans, and platform requests.
	RunID string
}

// NewDeps wires the production dependencies for cfg. The run ID doubles
// as the X-Request-Id sent with every platform request.
func NewDeps(cfg *config.Config) (*Deps, error) {
	base, err := cfg.PlatformURL()
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := logging.New().WithRunID(runID)

	client, err := platform.NewClient(platform.Config{
		BaseURL:      base,
		SessionToken: cfg.SessionToken,
		RequestID:    runID,
		Logger:       log.WithComponent("platform"),
	})
	if err != nil {
		return nil, err
	}
	api := platform.WithTracing(client)

	var notifier notify.Notifier
	if cfg.CommentOnIssue {
		notifier, err = notify.NewGitHubNotifier(notify.GitHubConfig{
			Token:  cfg.GitHubToken,
			Logger: log.WithComponent("notify"),
		})
		if err != nil {
			return nil, err
		}
	}

	events, err := telemetry.NewExporterFromEnv()
	if err != nil {
		return nil, errors.Wrap(err, "configuring the event exporter")
	}

	return &Deps{
		API:      api,
		Orch:     tasks.NewOrchestrator(api, tasks.WithLogger(log.WithComponent("tasks"))),
		Notifier: notifier,
		Log:      log,
		Events:   events,
		RunID:    runID,
	}, nil
}

func (d *Deps) defaults() {
	if d.Log == nil {
		d.Log = logging.New()
	}
	if d.Events == nil {
		d.Events = telemetry.NewNoopExporter()
	}
}

// Run executes one dispatch run and returns the workflow outputs.
func Run(ctx context.Context, cfg *config.Config, deps *Deps) (out *config.Outputs, err error) {
	deps.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	tracer := telemetry.GetTracer()
	var taskID string

	ctx, span := tracer.StartRunSpan(ctx, deps.RunID)
	defer func() {
		opts := telemetry.RunSpanOptions{TaskID: taskID, Prompt: cfg.Prompt}
		if out != nil {
			opts.Owner = out.Username
			opts.TaskName = out.TaskName
			opts.Created = out.Created
		}
		tracer.EndRunSpan(span, opts, err)
		if err != nil {
			deps.Log.RunFailed(err, time.Since(start))
			deps.Events.LogEvent("run_failed", map[string]interface{}{
				"error": string(errors.Code(err)),
			})
		}
		deps.Events.Flush()
	}()

	ref, err := cfg.IssueRef()
	if err != nil {
		return nil, err
	}
	deps.Events.LogEvent("run_started", map[string]interface{}{
		"run_id": deps.RunID,
		"issue":  ref.String(),
	})

	username := cfg.PlatformUsername
	if username == "" {
		user, uerr := resolve.User(ctx, deps.API, cfg.GitHubUserID)
		if uerr != nil {
			return nil, uerr
		}
		username = user.Username
		deps.Log.UserResolved(username, cfg.GitHubUserID)
	}

	tmpl, err := resolve.Template(ctx, deps.API, cfg.Organization, cfg.TemplateName)
	if err != nil {
		return nil, err
	}
	deps.Log.TemplateResolved(tmpl.Name, tmpl.ActiveVersionID)

	presets, err := resolve.Presets(ctx, deps.API, tmpl.ActiveVersionID)
	if err != nil {
		return nil, err
	}
	presetID, found, err := resolve.SelectPreset(presets, cfg.PresetName)
	if err != nil {
		return nil, err
	}
	if found {
		deps.Log.PresetSelected(presetID)
	}

	name := tasks.DeriveName(cfg.TaskPrefix, ref.Number)
	res, err := deps.Orch.EnsureRunning(ctx, tasks.EnsureRequest{
		OwnerName:         username,
		TaskName:          name,
		TemplateVersionID: tmpl.ActiveVersionID,
		PresetID:          presetID,
		Prompt:            cfg.Prompt,
	})
	if err != nil {
		return nil, err
	}
	taskID = res.Task.ID

	event := "task_reused"
	if res.Created {
		event = "task_created"
	}
	deps.Events.LogEvent(event, map[string]interface{}{
		"task_id":   taskID,
		"task_name": name,
		"owner":     username,
	})
	deps.Events.LogEvent("prompt_delivered", map[string]interface{}{
		"task_id": taskID,
		"size":    len(cfg.Prompt),
	})

	base, err := cfg.PlatformURL()
	if err != nil {
		return nil, err
	}
	taskURL := BuildTaskURL(base, username, taskID)

	if cfg.CommentOnIssue && deps.Notifier != nil {
		issue := notify.IssueRef{Owner: ref.Owner, Repo: ref.Repo, Number: ref.Number}
		if nerr := deps.Notifier.Upsert(ctx, issue, taskURL); nerr != nil {
			deps.Log.Warn("posting the task link to the issue failed", map[string]interface{}{
				"issue": issue.String(),
				"error": nerr.Error(),
			})
		}
	}

	out = &config.Outputs{
		Username: username,
		TaskName: name,
		TaskURL:  taskURL,
		Created:  res.Created,
	}
	deps.Log.RunComplete(taskURL, res.Created, time.Since(start))
	deps.Events.LogEvent("run_completed", map[string]interface{}{
		"task_url": taskURL,
		"created":  res.Created,
	})
	return out, nil
}

// BuildTaskURL renders the human-facing task page URL,
// {deployment}/tasks/{username}/{taskID}.
func BuildTaskURL(base, username, taskID string) string {
	return fmt.Sprintf("%s/tasks/%s/%s",
		strings.TrimRight(base, "/"), url.PathEscape(username), url.PathEscape(taskID))
}
