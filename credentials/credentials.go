// Package credentials loads platform and GitHub tokens from standard locations.
package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// ErrInsecurePermissions is returned when the credentials file has overly permissive permissions.
var ErrInsecurePermissions = fmt.Errorf("credentials file has insecure permissions")

// Credentials holds tokens loaded from credentials.toml.
type Credentials struct {
	// Platform holds the deployment platform session token.
	Platform *PlatformCreds `toml:"platform"`

	// GitHub holds the token used for issue comments.
	GitHub *GitHubCreds `toml:"github"`
}

// PlatformCreds holds credentials for the deployment platform.
type PlatformCreds struct {
	SessionToken string `toml:"session_token"`
}

// GitHubCreds holds the GitHub API token.
type GitHubCreds struct {
	Token string `toml:"token"`
}

// StandardPaths returns the standard credential file locations in order of priority.
func StandardPaths() []string {
	paths := []string{}

	// 1. Current directory
	paths = append(paths, "credentials.toml")

	// 2. ~/.config/taskbridge/credentials.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "taskbridge", "credentials.toml"))
	}

	// 3. ~/.taskbridge/credentials.toml (fallback)
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".taskbridge", "credentials.toml"))
	}

	return paths
}

// Load loads credentials from the first available standard location.
func Load() (*Credentials, string, error) {
	for _, path := range StandardPaths() {
		if _, err := os.Stat(path); err == nil {
			creds, err := LoadFile(path)
			if err != nil {
				return nil, path, err
			}
			return creds, path, nil
		}
	}
	return nil, "", nil // No credentials file found (not an error)
}

// LoadFile loads credentials from a specific file.
// Returns ErrInsecurePermissions unless the file is owner read-only.
func LoadFile(path string) (*Credentials, error) {
	// Check file permissions (Unix only)
	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		mode := info.Mode().Perm()
		// Credentials must be 0400 (owner read-only)
		if mode != 0400 {
			return nil, fmt.Errorf("%w: %s has mode %04o (must be 0400)",
				ErrInsecurePermissions, path, mode)
		}
	}

	var creds Credentials
	if _, err := toml.DecodeFile(path, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// SessionToken returns the platform session token.
// Priority: [platform] section > TASKBRIDGE_SESSION_TOKEN environment variable.
func (c *Credentials) SessionToken() string {
	if c != nil && c.Platform != nil && c.Platform.SessionToken != "" {
		return c.Platform.SessionToken
	}
	return os.Getenv("TASKBRIDGE_SESSION_TOKEN")
}

// GitHubToken returns the GitHub API token.
// Priority: [github] section > GITHUB_TOKEN environment variable.
func (c *Credentials) GitHubToken() string {
	if c != nil && c.GitHub != nil && c.GitHub.Token != "" {
		return c.GitHub.Token
	}
	return os.Getenv("GITHUB_TOKEN")
}
