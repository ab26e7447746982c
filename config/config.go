// Package config loads the invocation inputs for one dispatch run.
//
// Inputs follow the convention of CI action runners: every input is an
// INPUT_* environment variable, uppercased with dashes turned into
// underscores. Precedence (highest to lowest):
//
//  1. Explicit overrides set on the viper instance (CLI flags)
//  2. INPUT_* environment variables
//  3. Built-in defaults
//
// Secrets resolve one step further: a missing session token falls back
// to the credentials file, then the TASKBRIDGE_SESSION_TOKEN
// environment variable; a missing GitHub token falls back the same way
// through GITHUB_TOKEN.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/issueops/taskbridge/credentials"
	"github.com/issueops/taskbridge/errors"
)

// Viper keys, doubling as CLI flag names.
const (
	KeyPrompt           = "prompt"
	KeySessionToken     = "session-token"
	KeyDeploymentURL    = "deployment-url"
	KeyTemplateName     = "template-name"
	KeyIssue            = "issue"
	KeyOrganization     = "organization"
	KeyTaskPrefix       = "task-prefix"
	KeyPresetName       = "preset-name"
	KeyCommentOnIssue   = "comment-on-issue"
	KeyGitHubUserID     = "github-user-id"
	KeyPlatformUsername = "platform-username"
	KeyGitHubToken      = "github-token"
)

// Defaults.
const (
	DefaultOrganization = "default"
	DefaultTaskPrefix   = "gh"
)

// Config holds one run's inputs.
type Config struct {
	// Prompt is the work item delivered to the task. Required.
	Prompt string

	// SessionToken authenticates against the deployment platform.
	SessionToken string

	// DeploymentURL is the platform's base URL. Validate normalizes it
	// via NormalizeURL before use.
	DeploymentURL string

	// TemplateName names the template tasks are created from.
	TemplateName string

	// Issue locates the triggering issue, as a URL or
	// owner/repo/issues/number.
	Issue string

	// Organization owning the template.
	Organization string

	// TaskPrefix leads every derived task name.
	TaskPrefix string

	// PresetName optionally requests a template preset by name. Empty
	// triggers default-preset selection.
	PresetName string

	// CommentOnIssue controls whether the run posts the task URL back
	// to the issue.
	CommentOnIssue bool

	// GitHubUserID is the numeric external identity to resolve.
	// Zero means absent.
	GitHubUserID int64

	// PlatformUsername names the task owner directly, bypassing
	// identity resolution.
	PlatformUsername string

	// GitHubToken authenticates issue comments.
	GitHubToken string
}

// New returns a viper instance carrying the defaults and INPUT_*
// bindings. The CLI layers flag overrides on top before Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	bindEnv(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyOrganization, DefaultOrganization)
	v.SetDefault(KeyTaskPrefix, DefaultTaskPrefix)
	v.SetDefault(KeyCommentOnIssue, true)
}

func bindEnv(v *viper.Viper) {
	v.BindEnv(KeyPrompt, "INPUT_PROMPT")
	v.BindEnv(KeySessionToken, "INPUT_SESSION_TOKEN")
	v.BindEnv(KeyDeploymentURL, "INPUT_DEPLOYMENT_URL")
	v.BindEnv(KeyTemplateName, "INPUT_TEMPLATE_NAME")
	v.BindEnv(KeyIssue, "INPUT_ISSUE")
	v.BindEnv(KeyOrganization, "INPUT_ORGANIZATION")
	v.BindEnv(KeyTaskPrefix, "INPUT_TASK_PREFIX")
	v.BindEnv(KeyPresetName, "INPUT_PRESET_NAME")
	v.BindEnv(KeyCommentOnIssue, "INPUT_COMMENT_ON_ISSUE")
	v.BindEnv(KeyGitHubUserID, "INPUT_GITHUB_USER_ID")
	v.BindEnv(KeyPlatformUsername, "INPUT_PLATFORM_USERNAME")
	v.BindEnv(KeyGitHubToken, "INPUT_GITHUB_TOKEN", "GITHUB_TOKEN")
}

// Load reads the config from the viper instance, fills missing secrets
// from the credentials file, and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	c := &Config{
		Prompt:           v.GetString(KeyPrompt),
		SessionToken:     v.GetString(KeySessionToken),
		DeploymentURL:    v.GetString(KeyDeploymentURL),
		TemplateName:     v.GetString(KeyTemplateName),
		Issue:            v.GetString(KeyIssue),
		Organization:     v.GetString(KeyOrganization),
		TaskPrefix:       v.GetString(KeyTaskPrefix),
		PresetName:       v.GetString(KeyPresetName),
		CommentOnIssue:   v.GetBool(KeyCommentOnIssue),
		GitHubUserID:     v.GetInt64(KeyGitHubUserID),
		PlatformUsername: v.GetString(KeyPlatformUsername),
		GitHubToken:      v.GetString(KeyGitHubToken),
	}

	if c.SessionToken == "" || (c.CommentOnIssue && c.GitHubToken == "") {
		creds, path, err := credentials.Load()
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("loading credentials from %s", path))
		}
		if c.SessionToken == "" {
			c.SessionToken = creds.SessionToken()
		}
		if c.GitHubToken == "" {
			c.GitHubToken = creds.GitHubToken()
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every input before any network call happens.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Prompt) == "" {
		return errors.Validation("prompt is required")
	}
	if c.SessionToken == "" {
		return errors.Validation("session token is required (input, credentials file, or TASKBRIDGE_SESSION_TOKEN)")
	}
	if c.TemplateName == "" {
		return errors.Validation("template name is required")
	}
	if c.Organization == "" {
		return errors.Validation("organization must not be empty")
	}
	if c.TaskPrefix == "" {
		return errors.Validation("task prefix must not be empty")
	}

	if _, err := NormalizeURL(c.DeploymentURL); err != nil {
		return err
	}
	if _, err := ParseIssue(c.Issue); err != nil {
		return err
	}

	hasUserID := c.GitHubUserID > 0
	hasUsername := c.PlatformUsername != ""
	switch {
	case hasUserID && hasUsername:
		return errors.Validation("supply exactly one of github-user-id or platform-username, not both")
	case !hasUserID && !hasUsername:
		return errors.Validation("one of github-user-id or platform-username is required")
	}

	if c.CommentOnIssue && c.GitHubToken == "" {
		return errors.Validation("a github token is required while comment-on-issue is enabled")
	}
	return nil
}

// PlatformURL returns the normalized deployment URL.
func (c *Config) PlatformURL() (string, error) {
	return NormalizeURL(c.DeploymentURL)
}

// IssueRef returns the parsed issue locator.
func (c *Config) IssueRef() (IssueLocator, error) {
	return ParseIssue(c.Issue)
}
