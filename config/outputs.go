package config

import (
	"fmt"
	"io"
	"os"

	"github.com/issueops/taskbridge/errors"
)

// Outputs are the values a finished run reports back to the invoking
// workflow.
type Outputs struct {
	// Username is the resolved task owner.
	Username string

	// TaskName is the derived idempotency name.
	TaskName string

	// TaskURL points a human at the running task.
	TaskURL string

	// Created is true when this run created the task, false when it
	// reused an existing one.
	Created bool
}

// Write renders the outputs as key=value lines, one per output.
func (o Outputs) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "username=%s\ntask_name=%s\ntask_url=%s\ncreated=%t\n",
		o.Username, o.TaskName, o.TaskURL, o.Created)
	return err
}

// Emit appends the outputs to the file named by GITHUB_OUTPUT, the
// action-runner contract, or prints them to stdout when the variable
// is unset.
func (o Outputs) Emit() error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return o.Write(os.Stdout)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("opening outputs file %s", path))
	}
	defer f.Close()
	if err := o.Write(f); err != nil {
		return errors.Wrap(err, fmt.Sprintf("writing outputs to %s", path))
	}
	return nil
}
