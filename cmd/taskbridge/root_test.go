package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/issueops/taskbridge/config"
	"github.com/issueops/taskbridge/errors"
)

func TestRootCommandFlags(t *testing.T) {
	root := newRootCommand()

	for _, key := range []string{
		config.KeyPrompt,
		config.KeySessionToken,
		config.KeyDeploymentURL,
		config.KeyTemplateName,
		config.KeyIssue,
		config.KeyOrganization,
		config.KeyTaskPrefix,
		config.KeyPresetName,
		config.KeyCommentOnIssue,
		config.KeyGitHubUserID,
		config.KeyPlatformUsername,
		config.KeyGitHubToken,
	} {
		if root.Flags().Lookup(key) == nil {
			t.Errorf("missing flag --%s", key)
		}
	}

	if got := root.Flags().Lookup(config.KeyTaskPrefix).DefValue; got != config.DefaultTaskPrefix {
		t.Errorf("task-prefix default = %q", got)
	}
	if got := root.Flags().Lookup(config.KeyCommentOnIssue).DefValue; got != "true" {
		t.Errorf("comment-on-issue default = %q", got)
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "taxonomy code leads",
			err:  errors.Validation("prompt is required"),
			want: []string{"VALIDATION", "prompt is required"},
		},
		{
			name: "remote error carries http status",
			err: errors.Transport("POST /tasks/alice: bad gateway",
				errors.WithStatusCode(502)),
			want: []string{"TRANSPORT", "(http 502)"},
		},
		{
			name: "plain error passes through",
			err:  fmt.Errorf("something else"),
			want: []string{"something else"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatError(tt.err)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("formatError = %q, missing %q", got, want)
				}
			}
		})
	}
}
