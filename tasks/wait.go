package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/issueops/taskbridge/errors"
	"github.com/issueops/taskbridge/platform"
	"github.com/issueops/taskbridge/telemetry"
)

// pollState is the loop-local view of one readiness wait, reported on
// the wait span once the loop ends.
type pollState struct {
	start      time.Time
	ticks      int
	lastStatus platform.TaskStatus
	lastState  string
}

// WaitUntilReady polls the task until it is active and idle, the
// platform reports it failed, or the budget runs out. A non-positive
// timeout falls back to the general readiness budget.
//
// The loop waits for state change only. Any fetch failure aborts it;
// nothing in here retries an error.
func (o *Orchestrator) WaitUntilReady(ctx context.Context, owner, taskID string, timeout time.Duration) (*platform.Task, error) {
	if timeout <= 0 {
		timeout = o.readyTimeout
	}

	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartWaitSpan(ctx, taskID)

	task, st, err := o.poll(ctx, owner, taskID, timeout)

	tracer.EndWaitSpan(span, telemetry.WaitSpanOptions{
		Ticks:      st.ticks,
		LastStatus: st.lastStatus.String(),
		LastState:  st.lastState,
		Elapsed:    o.clock.Now().Sub(st.start),
	}, err)
	return task, err
}

func (o *Orchestrator) poll(ctx context.Context, owner, taskID string, timeout time.Duration) (*platform.Task, pollState, error) {
	st := pollState{start: o.clock.Now()}
	o.log.WaitStart(taskID, timeout)

	for {
		task, err := o.gw.Task(ctx, owner, taskID)
		if err != nil {
			return nil, st, err
		}
		st.ticks++
		st.lastStatus = task.Status
		st.lastState = task.StateString()

		if task.Status == platform.StatusError {
			return nil, st, errors.TaskFailed(taskID,
				fmt.Sprintf("task %s reported the error status", task.Name))
		}
		if task.Ready() {
			return task, st, nil
		}

		o.log.PollTick(taskID, task.Status.String(), task.StateString(), o.clock.Now().Sub(st.start))

		if err := o.clock.Sleep(ctx, o.pollInterval); err != nil {
			return nil, st, errors.Wrap(err, fmt.Sprintf("waiting for task %s", taskID))
		}
		if elapsed := o.clock.Now().Sub(st.start); elapsed > timeout {
			return nil, st, errors.Timeout(
				fmt.Sprintf("task %s not ready after %s (last status %s, state %s)",
					taskID, timeout, st.lastStatus, st.lastState),
				errors.WithTaskID(taskID),
				errors.WithDetail("budget", timeout.String()))
		}
	}
}
