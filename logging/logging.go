// Package logging provides leveled console output for a dispatch run.
// Lines go to stderr so stdout stays free for machine-readable outputs
// when no outputs file is configured.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// ParseLevel maps a level name to a Level, defaulting to INFO for
// unknown or empty input.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger provides structured logging for the dispatch flow.
type Logger struct {
	mu        sync.Mutex
	output    io.Writer
	minLevel  Level
	component string
	runID     string
}

// levelPriority maps levels to numeric priority for filtering.
var levelPriority = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// New creates a new Logger. The minimum level comes from the
// TASKBRIDGE_LOG environment variable when set.
func New() *Logger {
	return &Logger{
		output:   os.Stderr,
		minLevel: ParseLevel(os.Getenv("TASKBRIDGE_LOG")),
	}
}

// WithComponent returns a new logger with the given component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		output:    l.output,
		minLevel:  l.minLevel,
		component: component,
		runID:     l.runID,
	}
}

// WithRunID returns a new logger tagging every line with the run
// correlation ID.
func (l *Logger) WithRunID(runID string) *Logger {
	return &Logger{
		output:    l.output,
		minLevel:  l.minLevel,
		component: l.component,
		runID:     runID,
	}
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.minLevel = level
}

// SetOutput sets the output writer (default: stderr).
func (l *Logger) SetOutput(w io.Writer) {
	l.output = w
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.log(LevelDebug, msg, fields...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.log(LevelError, msg, fields...)
}

// formatFields formats a map of fields as key=value pairs.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	var parts []string
	for k, v := range fields {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return " " + strings.Join(parts, " ")
}

// log writes a log entry in traditional format: LEVEL TIMESTAMP [component] message key=value ...
func (l *Logger) log(level Level, msg string, fields ...map[string]interface{}) {
	if levelPriority[level] < levelPriority[l.minLevel] {
		return
	}

	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	var fieldStr string
	if len(fields) > 0 && fields[0] != nil {
		fieldStr = formatFields(fields[0])
	}
	if l.runID != "" {
		fieldStr += " run_id=" + l.runID
	}

	var line string
	if l.component != "" {
		line = fmt.Sprintf("%-5s %s [%s] %s%s\n", level, timestamp, l.component, msg, fieldStr)
	} else {
		line = fmt.Sprintf("%-5s %s %s%s\n", level, timestamp, msg, fieldStr)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.Write([]byte(line))
}

// --- Flow logging methods ---
// Called along the dispatch path so a run leaves a readable trail of
// what was resolved, what was polled, and where a failure came from.

// RequestFailed logs a platform request that came back non-2xx.
func (l *Logger) RequestFailed(method, path string, status int, err error) {
	fields := map[string]interface{}{
		"method": method,
		"path":   path,
		"status": status,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	l.Error("request_failed", fields)
}

// UserResolved logs a successful identity resolution.
func (l *Logger) UserResolved(username string, externalID int64) {
	l.Info("user_resolved", map[string]interface{}{
		"username":    username,
		"external_id": externalID,
	})
}

// TemplateResolved logs a successful template lookup.
func (l *Logger) TemplateResolved(name, versionID string) {
	l.Info("template_resolved", map[string]interface{}{
		"template":   name,
		"version_id": versionID,
	})
}

// PresetSelected logs the outcome of preset selection.
func (l *Logger) PresetSelected(presetID string) {
	if presetID == "" {
		l.Debug("preset_selected", map[string]interface{}{
			"preset_id": "none",
		})
		return
	}
	l.Info("preset_selected", map[string]interface{}{
		"preset_id": presetID,
	})
}

// WaitStart logs the start of a readiness wait.
func (l *Logger) WaitStart(taskID string, timeout time.Duration) {
	l.Info("wait_start", map[string]interface{}{
		"task_id": taskID,
		"timeout": timeout.String(),
	})
}

// PollTick logs one readiness poll observation.
func (l *Logger) PollTick(taskID, status, state string, elapsed time.Duration) {
	l.Debug("poll_tick", map[string]interface{}{
		"task_id": taskID,
		"status":  status,
		"state":   state,
		"elapsed": elapsed.Round(time.Second).String(),
	})
}

// TaskCreated logs creation of a new task.
func (l *Logger) TaskCreated(name, taskID string) {
	l.Info("task_created", map[string]interface{}{
		"task":    name,
		"task_id": taskID,
	})
}

// TaskReused logs reuse of an existing task.
func (l *Logger) TaskReused(name, taskID, status string) {
	l.Info("task_reused", map[string]interface{}{
		"task":    name,
		"task_id": taskID,
		"status":  status,
	})
}

// PromptSent logs prompt delivery to an existing task.
func (l *Logger) PromptSent(taskID string, size int) {
	l.Info("prompt_sent", map[string]interface{}{
		"task_id": taskID,
		"bytes":   size,
	})
}

// RunComplete logs the end of a successful run.
func (l *Logger) RunComplete(taskURL string, created bool, duration time.Duration) {
	l.Info("run_complete", map[string]interface{}{
		"task_url": taskURL,
		"created":  created,
		"duration": duration.Round(time.Millisecond).String(),
	})
}

// RunFailed logs the end of a failed run.
func (l *Logger) RunFailed(err error, duration time.Duration) {
	l.Error("run_failed", map[string]interface{}{
		"error":    err.Error(),
		"duration": duration.Round(time.Millisecond).String(),
	})
}
