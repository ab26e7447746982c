package config

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/issueops/taskbridge/errors"
)

// IssueLocator identifies one issue on a GitHub host.
type IssueLocator struct {
	Owner  string
	Repo   string
	Number int
}

// String renders the locator as owner/repo#number.
func (l IssueLocator) String() string {
	return l.Owner + "/" + l.Repo + "#" + strconv.Itoa(l.Number)
}

// ParseIssue parses an issue locator. Both full URLs
// (https://github.com/acme/widgets/issues/42, any host) and bare
// owner/repo/issues/number paths are accepted. Hosts serving GitHub
// under a path prefix work too: only the last four path segments
// matter.
func ParseIssue(locator string) (IssueLocator, error) {
	s := strings.TrimSpace(locator)
	if s == "" {
		return IssueLocator{}, errors.Validation("issue locator is required")
	}

	path := s
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil || u.Host == "" {
			return IssueLocator{}, errors.Validationf("issue locator %q is not a valid URL", locator)
		}
		path = u.Path
	}

	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(segs) < 4 {
		return IssueLocator{}, errors.Validationf("issue locator %q must be owner/repo/issues/number or an issue URL", locator)
	}
	tail := segs[len(segs)-4:]
	if tail[2] != "issues" {
		return IssueLocator{}, errors.Validationf("issue locator %q does not point at an issue", locator)
	}
	number, err := strconv.Atoi(tail[3])
	if err != nil || number <= 0 {
		return IssueLocator{}, errors.Validationf("issue number %q must be a positive integer", tail[3])
	}
	if tail[0] == "" || tail[1] == "" {
		return IssueLocator{}, errors.Validationf("issue locator %q is missing the owner or repository", locator)
	}
	return IssueLocator{Owner: tail[0], Repo: tail[1], Number: number}, nil
}

// NormalizeURL validates the deployment URL and strips query,
// fragment, and trailing slashes so path joins stay predictable.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", errors.Validationf("deployment URL %q is not a valid absolute URL", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.Validationf("deployment URL %q must use http or https", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String(), nil
}
