package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/issueops/taskbridge/errors"
	"github.com/issueops/taskbridge/logging"
	"github.com/issueops/taskbridge/telemetry"
)

const (
	// sessionTokenHeader authenticates requests against the platform.
	sessionTokenHeader = "X-Session-Token"

	// requestIDHeader correlates all requests from one invocation.
	requestIDHeader = "X-Request-Id"

	// defaultTimeout bounds a single HTTP request.
	defaultTimeout = 30 * time.Second
)

// Config holds the settings for a platform client.
type Config struct {
	// BaseURL is the root URL of the platform API, without a trailing
	// slash. Required.
	BaseURL string

	// SessionToken authenticates every request. Required.
	SessionToken string

	// RequestID correlates all requests from one invocation.
	// A random UUID is generated when empty.
	RequestID string

	// Timeout bounds each HTTP request. Defaults to 30 seconds.
	Timeout time.Duration

	// Logger receives request diagnostics. Defaults to the standard
	// logger when nil.
	Logger *logging.Logger
}

// Validate checks that the config is usable.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.Validation("platform base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Validationf("platform base URL %q is not a valid URL", c.BaseURL)
	}
	if c.SessionToken == "" {
		return errors.Validation("platform session token is required")
	}
	return nil
}

// Client is a typed HTTP client for the platform API.
// It is safe for concurrent use.
type Client struct {
	baseURL   string
	token     string
	requestID string
	client    *http.Client
	log       *logging.Logger
}

// NewClient creates a platform client from the given config.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	requestID := cfg.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	log := cfg.Logger
	if log == nil {
		log = logging.New()
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		token:     cfg.SessionToken,
		requestID: requestID,
		client:    &http.Client{Timeout: timeout},
		log:       log.WithComponent("platform"),
	}, nil
}

// RequestID returns the correlation id sent with every request.
func (c *Client) RequestID() string {
	return c.requestID
}

// do executes one request against the platform. A nil out skips body
// decoding entirely, which also covers 204 responses. Non-2xx
// responses become typed errors carrying the status code and the raw
// body; a failure to read that body is swallowed and the body recorded
// as empty.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, fmt.Sprintf("encoding %s %s request body", method, path))
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("building %s %s request", method, path))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(sessionTokenHeader, c.token)
	req.Header.Set(requestIDHeader, c.requestID)
	telemetry.InjectHTTP(ctx, req.Header)

	c.log.Debug("request", map[string]interface{}{
		"method": method,
		"path":   path,
	})

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(err, fmt.Sprintf("%s %s aborted", method, path))
		}
		c.log.RequestFailed(method, path, 0, err)
		return errors.Transport(fmt.Sprintf("%s %s: %v", method, path, err), errors.WithCause(err))
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw := ""
		if readErr == nil {
			raw = string(data)
		}
		apiErr := statusError(method, path, resp.StatusCode, raw)
		c.log.RequestFailed(method, path, resp.StatusCode, apiErr)
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

// statusError maps a non-2xx response onto the error taxonomy.
func statusError(method, path string, status int, body string) *errors.Error {
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
	case http.StatusConflict:
		return errors.Conflict(msg, opts...)
	default:
		return errors.Transport(msg, opts...)
	}
}

// malformed wraps a response validation failure as a transport error.
// The platform answered, but with a body callers cannot trust.
func malformed(method, path string, err error) *errors.Error {
	return errors.Transport(
		fmt.Sprintf("%s %s: invalid response: %v", method, path, err),
		errors.WithCause(err),
	)
}
