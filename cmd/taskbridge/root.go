package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/issueops/taskbridge/config"
	"github.com/issueops/taskbridge/errors"
)

func newRootCommand() *cobra.Command {
	v := config.New()

	root := &cobra.Command{
		Use:   "taskbridge",
		Short: "Dispatch a GitHub issue to a platform task",
		Long: `taskbridge turns a GitHub issue into a running task on a deployment
platform: it resolves the requesting user, picks the template and
preset, creates the task or reuses the existing one for the issue,
delivers the prompt, and posts the task link back to the issue.

Every input can come from a flag or from the matching INPUT_*
environment variable, the convention of CI action runners. Flags win
over the environment. Running the same issue twice reuses the task
instead of creating a duplicate.`,
		Version: version,
		// Errors are rendered once, in main, with their taxonomy code.
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDispatch(cmd.Context(), v)
		},
	}

	flags := root.Flags()
	flags.String(config.KeyPrompt, "", "prompt delivered to the task")
	flags.String(config.KeySessionToken, "", "platform session token")
	flags.String(config.KeyDeploymentURL, "", "platform base URL")
	flags.String(config.KeyTemplateName, "", "template the task is created from")
	flags.String(config.KeyIssue, "", "issue URL or owner/repo/issues/number")
	flags.String(config.KeyOrganization, config.DefaultOrganization, "organization owning the template")
	flags.String(config.KeyTaskPrefix, config.DefaultTaskPrefix, "prefix for derived task names")
	flags.String(config.KeyPresetName, "", "template preset to request by name")
	flags.Bool(config.KeyCommentOnIssue, true, "post the task link to the issue")
	flags.Int64(config.KeyGitHubUserID, 0, "numeric GitHub user id to resolve")
	flags.String(config.KeyPlatformUsername, "", "platform username, skips identity resolution")
	flags.String(config.KeyGitHubToken, "", "token used for issue comments")

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
		_ = v.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(versionCmd)

	return root
}

// formatError renders an error with its taxonomy code and, for remote
// failures, the originating HTTP status.
func formatError(err error) string {
	code := errors.Code(err)
	if code == "" {
		return err.Error()
	}
	msg := fmt.Sprintf("%s: %v", code, err)
	if status := errors.StatusCode(err); status != 0 {
		msg += fmt.Sprintf(" (http %d)", status)
	}
	return msg
}
