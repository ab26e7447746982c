package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/issueops/taskbridge/errors"
	"github.com/issueops/taskbridge/logging"
)

// githubFake records the comment traffic one Upsert produces.
type githubFake struct {
	comments []issueComment

	listCalls  int
	listQuery  url.Values
	authHeader string

	created    *commentRequest
	createPath string
	patched    *commentRequest
	patchPath  string
}

func (f *githubFake) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.authHeader = r.Header.Get("Authorization")
		switch r.Method {
		case http.MethodGet:
			f.listCalls++
			f.listQuery = r.URL.Query()
			json.NewEncoder(w).Encode(f.comments)
		case http.MethodPost:
			var req commentRequest
			json.NewDecoder(r.Body).Decode(&req)
			f.created = &req
			f.createPath = r.URL.Path
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"id":100}`)
		case http.MethodPatch:
			var req commentRequest
			json.NewDecoder(r.Body).Decode(&req)
			f.patched = &req
			f.patchPath = r.URL.Path
			io.WriteString(w, `{"id":7}`)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func testLogger() *logging.Logger {
	log := logging.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestNotifier(t *testing.T, handler http.Handler) *GitHubNotifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	n, err := NewGitHubNotifier(GitHubConfig{
		Token:   "gh-token",
		APIBase: srv.URL,
		Logger:  testLogger(),
	})
	if err != nil {
		t.Fatalf("NewGitHubNotifier: %v", err)
	}
	return n
}

var testRef = IssueRef{Owner: "acme", Repo: "widgets", Number: 42}

func TestUpsertCreatesWhenNoMarkedComment(t *testing.T) {
	fake := &githubFake{comments: []issueComment{
		{ID: 1, Body: "just a human comment"},
	}}
	n := newTestNotifier(t, fake.handler())

	if err := n.Upsert(context.Background(), testRef, "https://platform.test/tasks/alice/t-1"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if fake.created == nil {
		t.Fatal("expected a comment to be created")
	}
	if fake.createPath != "/repos/acme/widgets/issues/42/comments" {
		t.Errorf("create path = %q", fake.createPath)
	}
	if !strings.HasPrefix(fake.created.Body, Marker) {
		t.Error("expected the marker to lead the comment body")
	}
	if !strings.Contains(fake.created.Body, "https://platform.test/tasks/alice/t-1") {
		t.Error("expected the task URL in the comment body")
	}
	if fake.patched != nil {
		t.Error("expected no update when creating")
	}
	if fake.authHeader != "Bearer gh-token" {
		t.Errorf("auth header = %q", fake.authHeader)
	}
}

func TestUpsertUpdatesMarkedComment(t *testing.T) {
	fake := &githubFake{comments: []issueComment{
		{ID: 12, Body: "newest human comment"},
		{ID: 7, Body: Marker + "\nolder pointer"},
	}}
	n := newTestNotifier(t, fake.handler())

	if err := n.Upsert(context.Background(), testRef, "https://platform.test/tasks/alice/t-1"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if fake.patched == nil {
		t.Fatal("expected the marked comment to be updated")
	}
	if fake.patchPath != "/repos/acme/widgets/issues/comments/7" {
		t.Errorf("patch path = %q", fake.patchPath)
	}
	if fake.created != nil {
		t.Error("expected no new comment when one is marked")
	}
	if !strings.Contains(fake.patched.Body, "https://platform.test/tasks/alice/t-1") {
		t.Error("expected the task URL in the updated body")
	}
}

func TestUpsertFirstMarkedCommentWins(t *testing.T) {
	// The list is newest-first; the newest marked comment is the one
	// the tool owns.
	fake := &githubFake{comments: []issueComment{
		{ID: 3, Body: Marker + "\nnewer pointer"},
		{ID: 9, Body: Marker + "\nolder pointer"},
	}}
	n := newTestNotifier(t, fake.handler())

	if err := n.Upsert(context.Background(), testRef, "https://x.test/t"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if fake.patchPath != "/repos/acme/widgets/issues/comments/3" {
		t.Errorf("patch path = %q, want comment 3", fake.patchPath)
	}
}

func TestUpsertMarkerMustLeadBody(t *testing.T) {
	fake := &githubFake{comments: []issueComment{
		{ID: 5, Body: "quoting the " + Marker + " marker mid-body"},
	}}
	n := newTestNotifier(t, fake.handler())

	if err := n.Upsert(context.Background(), testRef, "https://x.test/t"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if fake.created == nil {
		t.Error("expected a create; mid-body markers must not match")
	}
}

func TestUpsertListQuery(t *testing.T) {
	fake := &githubFake{}
	n := newTestNotifier(t, fake.handler())

	if err := n.Upsert(context.Background(), testRef, "https://x.test/t"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if got := fake.listQuery.Get("direction"); got != "desc" {
		t.Errorf("direction = %q, want desc", got)
	}
	if got := fake.listQuery.Get("sort"); got != "created" {
		t.Errorf("sort = %q, want created", got)
	}
	if got := fake.listQuery.Get("per_page"); got != "100" {
		t.Errorf("per_page = %q, want 100", got)
	}
}

func TestUpsertListFailure(t *testing.T) {
	n := newTestNotifier(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))

	err := n.Upsert(context.Background(), testRef, "https://x.test/t")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("code = %v, want NOT_FOUND", errors.Code(err))
	}
}

func TestUpsertCreateFailure(t *testing.T) {
	fake := &githubFake{}
	base := fake.handler()
	n := newTestNotifier(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			http.Error(w, `{"message":"forbidden"}`, http.StatusForbidden)
			return
		}
		base.ServeHTTP(w, r)
	}))

	err := n.Upsert(context.Background(), testRef, "https://x.test/t")
	if !errors.Is(err, errors.ErrCodeForbidden) {
		t.Errorf("code = %v, want FORBIDDEN", errors.Code(err))
	}
	if errors.StatusCode(err) != http.StatusForbidden {
		t.Errorf("StatusCode() = %d, want 403", errors.StatusCode(err))
	}
}

func TestNewGitHubNotifierRequiresToken(t *testing.T) {
	_, err := NewGitHubNotifier(GitHubConfig{})
	if !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("code = %v, want VALIDATION", errors.Code(err))
	}
}

func TestNewGitHubNotifierEnvBase(t *testing.T) {
	fake := &githubFake{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	t.Setenv("GITHUB_API_URL", srv.URL)

	n, err := NewGitHubNotifier(GitHubConfig{Token: "gh-token", Logger: testLogger()})
	if err != nil {
		t.Fatalf("NewGitHubNotifier: %v", err)
	}

	if err := n.Upsert(context.Background(), testRef, "https://x.test/t"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if fake.listCalls != 1 {
		t.Error("expected the env-configured base to receive the request")
	}
}

func TestUpsertValidation(t *testing.T) {
	n := newTestNotifier(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call")
	}))

	tests := []struct {
		name string
		ref  IssueRef
		url  string
	}{
		{"missing owner", IssueRef{Repo: "widgets", Number: 42}, "https://x.test/t"},
		{"missing repo", IssueRef{Owner: "acme", Number: 42}, "https://x.test/t"},
		{"bad number", IssueRef{Owner: "acme", Repo: "widgets"}, "https://x.test/t"},
		{"empty url", testRef, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := n.Upsert(context.Background(), tt.ref, tt.url)
			if !errors.Is(err, errors.ErrCodeValidation) {
				t.Errorf("code = %v, want VALIDATION", errors.Code(err))
			}
		})
	}
}

func TestIssueRefString(t *testing.T) {
	if got := testRef.String(); got != "acme/widgets#42" {
		t.Errorf("String() = %q", got)
	}
}
