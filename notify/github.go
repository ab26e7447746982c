package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/issueops/taskbridge/errors"
	"github.com/issueops/taskbridge/logging"
)

const (
	// Marker leads every comment this tool writes. The upsert scan
	// matches it as a body prefix, so it must stay the first line.
	Marker = "<!-- taskbridge -->"

	// defaultAPIBase is the public GitHub REST endpoint. GHES
	// deployments override it via GITHUB_API_URL.
	defaultAPIBase = "https://api.github.com"

	// commentPageSize bounds the marker scan to the newest comments.
	commentPageSize = 100

	apiVersion = "2022-11-28"
)

// GitHubConfig holds the settings for the GitHub notification sink.
type GitHubConfig struct {
	// Token authenticates against the GitHub API. Required.
	Token string

	// APIBase overrides the REST endpoint. Falls back to the
	// GITHUB_API_URL environment variable, then the public API.
	APIBase string

	// Timeout bounds each HTTP request. Defaults to 30 seconds.
	Timeout time.Duration

	// Logger receives request diagnostics.
	Logger *logging.Logger
}

// GitHubNotifier implements Notifier against the GitHub REST API.
type GitHubNotifier struct {
	base   string
	token  string
	client *http.Client
	log    *logging.Logger
}

// NewGitHubNotifier creates a notifier from the given config.
func NewGitHubNotifier(cfg GitHubConfig) (*GitHubNotifier, error) {
	if cfg.Token == "" {
		return nil, errors.Validation("a github token is required to comment on issues")
	}

	base := cfg.APIBase
	if base == "" {
		base = os.Getenv("GITHUB_API_URL")
	}
	if base == "" {
		base = defaultAPIBase
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	log := cfg.Logger
	if log == nil {
		log = logging.New()
	}

	return &GitHubNotifier{
		base:   strings.TrimRight(base, "/"),
		token:  cfg.Token,
		client: &http.Client{Timeout: timeout},
		log:    log.WithComponent("notify"),
	}, nil
}

// issueComment is the slice of the GitHub comment object we need.
type issueComment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

type commentRequest struct {
	Body string `json:"body"`
}

// Upsert implements Notifier.
func (n *GitHubNotifier) Upsert(ctx context.Context, ref IssueRef, taskURL string) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	if taskURL == "" {
		return errors.Validation("task URL must not be empty")
	}

	commentID, err := n.findMarked(ctx, ref)
	if err != nil {
		return err
	}

	body := commentBody(taskURL)
	if commentID != 0 {
		return n.updateComment(ctx, ref, commentID, body)
	}
	return n.createComment(ctx, ref, body)
}

// findMarked returns the id of the newest comment carrying the marker,
// zero when the issue has none.
func (n *GitHubNotifier) findMarked(ctx context.Context, ref IssueRef) (int64, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments?sort=created&direction=desc&per_page=%d",
		url.PathEscape(ref.Owner), url.PathEscape(ref.Repo), ref.Number, commentPageSize)

	var comments []issueComment
	if err := n.do(ctx, http.MethodGet, path, nil, &comments); err != nil {
		return 0, err
	}
	for _, c := range comments {
		if strings.HasPrefix(c.Body, Marker) {
			return c.ID, nil
		}
	}
	return 0, nil
}

func (n *GitHubNotifier) createComment(ctx context.Context, ref IssueRef, body string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments",
		url.PathEscape(ref.Owner), url.PathEscape(ref.Repo), ref.Number)

	if err := n.do(ctx, http.MethodPost, path, &commentRequest{Body: body}, nil); err != nil {
		return err
	}
	n.log.Info("comment created", map[string]interface{}{"issue": ref.String()})
	return nil
}

func (n *GitHubNotifier) updateComment(ctx context.Context, ref IssueRef, commentID int64, body string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/comments/%d",
		url.PathEscape(ref.Owner), url.PathEscape(ref.Repo), commentID)

	if err := n.do(ctx, http.MethodPatch, path, &commentRequest{Body: body}, nil); err != nil {
		return err
	}
	n.log.Info("comment updated", map[string]interface{}{
		"issue":      ref.String(),
		"comment_id": commentID,
	})
	return nil
}

// commentBody renders the comment. The marker must stay first.
func commentBody(taskURL string) string {
	return fmt.Sprintf("%s\nA background task has been dispatched for this issue.\n\nFollow its progress here: %s\n", Marker, taskURL)
}

// do executes one request against the GitHub API, mirroring the
// platform gateway's transport semantics.
func (n *GitHubNotifier) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, fmt.Sprintf("encoding %s %s request body", method, path))
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, n.base+path, reqBody)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("building %s %s request", method, path))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	resp, err := n.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(err, fmt.Sprintf("%s %s aborted", method, path))
		}
		return errors.Transport(fmt.Sprintf("%s %s: %v", method, path, err), errors.WithCause(err))
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw := ""
		if readErr == nil {
			raw = string(data)
		}
		apiErr := githubStatusError(method, path, resp.StatusCode, raw)
		n.log.RequestFailed(method, path, resp.StatusCode, apiErr)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if readErr != nil {
		return errors.Transport(
			fmt.Sprintf("%s %s: reading response body: %v", method, path, readErr),
			errors.WithStatusCode(resp.StatusCode),
			errors.WithCause(readErr),
		)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Transport(
			fmt.Sprintf("%s %s: malformed response body: %v", method, path, err),
			errors.WithStatusCode(resp.StatusCode),
			errors.WithResponseBody(string(data)),
			errors.WithCause(err),
		)
	}
	return nil
}

func githubStatusError(method, path string, status int, body string) *errors.Error {
	msg := fmt.Sprintf("%s %s returned status %d", method, path, status)
	opts := []errors.Option{
		errors.WithStatusCode(status),
		errors.WithResponseBody(body),
	}
	switch status {
	case http.StatusNotFound:
		return errors.NotFound(msg, opts...)
	case http.StatusUnauthorized:
		return errors.Unauthorized(msg, opts...)
	case http.StatusForbidden:
		return errors.Forbidden(msg, opts...)
	default:
		return errors.Transport(msg, opts...)
	}
}

var _ Notifier = (*GitHubNotifier)(nil)
