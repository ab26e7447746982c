package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/issueops/taskbridge/errors"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL:      srv.URL,
		SessionToken: "test-token",
		RequestID:    "req-1234",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

// ============================================================================
// 1. Config validation
// ============================================================================

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{BaseURL: "https://platform.test", SessionToken: "tok"}, false},
		{"missing base URL", Config{SessionToken: "tok"}, true},
		{"relative base URL", Config{BaseURL: "platform.test", SessionToken: "tok"}, true},
		{"missing token", Config{BaseURL: "https://platform.test"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeValidation) {
				t.Errorf("expected VALIDATION code, got %v", errors.Code(err))
			}
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(Config{
		BaseURL:      "https://platform.test/",
		SessionToken: "tok",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.baseURL != "https://platform.test" {
		t.Errorf("expected trailing slash trimmed, got %q", client.baseURL)
	}
	if client.RequestID() == "" {
		t.Error("expected a generated request id")
	}
}

// ============================================================================
// 2. Request headers
// ============================================================================

func TestRequestHeaders(t *testing.T) {
	var gotToken, gotRequestID, gotAccept, gotContentType string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Session-Token")
		gotRequestID = r.Header.Get("X-Request-Id")
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.SendInput(context.Background(), "alice", "task-1", "hello"); err != nil {
		t.Fatalf("SendInput: %v", err)
	}

	if gotToken != "test-token" {
		t.Errorf("session token header = %q, want %q", gotToken, "test-token")
	}
	if gotRequestID != "req-1234" {
		t.Errorf("request id header = %q, want %q", gotRequestID, "req-1234")
	}
	if gotAccept != "application/json" {
		t.Errorf("accept header = %q", gotAccept)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type header = %q", gotContentType)
	}
}

// ============================================================================
// 3. Status code translation
// ============================================================================

func TestStatusTranslation(t *testing.T) {
	tests := []struct {
		status   int
		wantCode errors.ErrorCode
	}{
		{http.StatusNotFound, errors.ErrCodeNotFound},
		{http.StatusUnauthorized, errors.ErrCodeUnauthorized},
		{http.StatusForbidden, errors.ErrCodeForbidden},
		{http.StatusConflict, errors.ErrCodeConflict},
		{http.StatusBadRequest, errors.ErrCodeTransport},
		{http.StatusInternalServerError, errors.ErrCodeTransport},
		{http.StatusBadGateway, errors.ErrCodeTransport},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprintf(w, "upstream said %d", tt.status)
			}))

			_, err := client.Task(context.Background(), "alice", "task-1")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("code = %v, want %v", errors.Code(err), tt.wantCode)
			}
			if errors.StatusCode(err) != tt.status {
				t.Errorf("StatusCode() = %d, want %d", errors.StatusCode(err), tt.status)
			}
			wantBody := fmt.Sprintf("upstream said %d", tt.status)
			if errors.ResponseBody(err) != wantBody {
				t.Errorf("ResponseBody() = %q, want %q", errors.ResponseBody(err), wantBody)
			}
		})
	}
}

func TestMalformedResponseBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>not json</html>")
	}))

	_, err := client.Task(context.Background(), "alice", "task-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCodeTransport) {
		t.Errorf("code = %v, want TRANSPORT", errors.Code(err))
	}
	if errors.ResponseBody(err) != "<html>not json</html>" {
		t.Errorf("raw body not captured: %q", errors.ResponseBody(err))
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client, err := NewClient(Config{BaseURL: srv.URL, SessionToken: "tok"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	srv.Close()

	_, err = client.Task(context.Background(), "alice", "task-1")
	if !errors.Is(err, errors.ErrCodeTransport) {
		t.Errorf("code = %v, want TRANSPORT", errors.Code(err))
	}
}

func TestContextCanceled(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Task(ctx, "alice", "task-1")
	if !errors.Is(err, errors.ErrCodeCanceled) {
		t.Errorf("code = %v, want CANCELED", errors.Code(err))
	}
}

// ============================================================================
// 4. User search
// ============================================================================

func TestUserByExternalID(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		io.WriteString(w, `[{"id":"u-1","username":"alice","external_id":12345}]`)
	}))

	users, err := client.UserByExternalID(context.Background(), 12345)
	if err != nil {
		t.Fatalf("UserByExternalID: %v", err)
	}

	if gotQuery != "external_id:12345" {
		t.Errorf("query = %q, want %q", gotQuery, "external_id:12345")
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0].Username != "alice" || users[0].ID != "u-1" {
		t.Errorf("unexpected user: %+v", users[0])
	}
}

func TestUserByExternalIDInvalidEntry(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":"u-1"}]`)
	}))

	_, err := client.UserByExternalID(context.Background(), 12345)
	if !errors.Is(err, errors.ErrCodeTransport) {
		t.Errorf("code = %v, want TRANSPORT for invalid entry", errors.Code(err))
	}
}

// ============================================================================
// 5. Templates and presets
// ============================================================================

func TestTemplateByName(t *testing.T) {
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, `{"id":"tpl-1","name":"reviewer","organization_name":"default","active_version_id":"ver-7"}`)
	}))

	tpl, err := client.TemplateByName(context.Background(), "default", "reviewer")
	if err != nil {
		t.Fatalf("TemplateByName: %v", err)
	}

	if gotPath != "/organizations/default/templates/reviewer" {
		t.Errorf("path = %q", gotPath)
	}
	if tpl.ActiveVersionID != "ver-7" {
		t.Errorf("ActiveVersionID = %q, want ver-7", tpl.ActiveVersionID)
	}
}

func TestTemplateMissingActiveVersion(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":"tpl-1","name":"reviewer"}`)
	}))

	_, err := client.TemplateByName(context.Background(), "default", "reviewer")
	if !errors.Is(err, errors.ErrCodeTransport) {
		t.Errorf("code = %v, want TRANSPORT for incomplete template", errors.Code(err))
	}
}

func TestTemplateVersionPresets(t *testing.T) {
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, `[{"id":"p-1","name":"small","is_default":false},{"id":"p-2","name":"large","is_default":true}]`)
	}))

	presets, err := client.TemplateVersionPresets(context.Background(), "ver-7")
	if err != nil {
		t.Fatalf("TemplateVersionPresets: %v", err)
	}

	if gotPath != "/templateversions/ver-7/presets" {
		t.Errorf("path = %q", gotPath)
	}
	if len(presets) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(presets))
	}
	if !presets[1].IsDefault {
		t.Error("expected second preset to be default")
	}
}

func TestTemplateVersionPresetsEmpty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}))

	presets, err := client.TemplateVersionPresets(context.Background(), "ver-7")
	if err != nil {
		t.Fatalf("TemplateVersionPresets: %v", err)
	}
	if len(presets) != 0 {
		t.Errorf("expected no presets, got %d", len(presets))
	}
}

// ============================================================================
// 6. Task operations
// ============================================================================

func TestListTasks(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		io.WriteString(w, `[
			{"id":"t-1","name":"gh-41","owner_name":"alice","status":"active","current_state":{"state":"idle"}},
			{"id":"t-2","name":"gh-42","owner_name":"alice","status":"pending"}
		]`)
	}))

	tasks, err := client.ListTasks(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}

	if gotQuery != "owner:alice" {
		t.Errorf("query = %q, want %q", gotQuery, "owner:alice")
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if !tasks[0].Ready() {
		t.Error("expected first task ready")
	}
	if tasks[1].CurrentState != nil {
		t.Error("expected second task to omit current state")
	}
}

func TestListTasksUnknownStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":"t-1","name":"gh-41","owner_name":"alice","status":"exploded"}]`)
	}))

	_, err := client.ListTasks(context.Background(), "alice")
	if !errors.Is(err, errors.ErrCodeTransport) {
		t.Errorf("code = %v, want TRANSPORT for unrecognized status", errors.Code(err))
	}
}

func TestTaskByName(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[
			{"id":"t-1","name":"gh-41","owner_name":"alice","status":"active"},
			{"id":"t-2","name":"gh-42","owner_name":"alice","status":"paused"}
		]`)
	}))

	task, err := client.TaskByName(context.Background(), "alice", "gh-42")
	if err != nil {
		t.Fatalf("TaskByName: %v", err)
	}
	if task.ID != "t-2" {
		t.Errorf("ID = %q, want t-2", task.ID)
	}
}

func TestTaskByNameNoMatch(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":"t-1","name":"gh-41","owner_name":"alice","status":"active"}]`)
	}))

	_, err := client.TaskByName(context.Background(), "alice", "gh-99")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("code = %v, want NOT_FOUND", errors.Code(err))
	}
}

func TestTaskByNameListNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such owner", http.StatusNotFound)
	}))

	_, err := client.TaskByName(context.Background(), "ghost", "gh-42")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("code = %v, want NOT_FOUND when the list itself 404s", errors.Code(err))
	}
	if errors.StatusCode(err) != http.StatusNotFound {
		t.Errorf("StatusCode() = %d, want 404", errors.StatusCode(err))
	}
}

func TestCreateTask(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"t-9","name":"gh-42","owner_name":"alice","status":"pending"}`)
	}))

	task, err := client.CreateTask(context.Background(), "alice", CreateTaskRequest{
		Name:              "gh-42",
		TemplateVersionID: "ver-7",
		Input:             "fix the bug",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if gotPath != "/tasks/alice" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["name"] != "gh-42" || gotBody["template_version_id"] != "ver-7" || gotBody["input"] != "fix the bug" {
		t.Errorf("unexpected request body: %v", gotBody)
	}
	if _, present := gotBody["template_version_preset_id"]; present {
		t.Error("expected empty preset id to be omitted from the body")
	}
	if task.ID != "t-9" {
		t.Errorf("ID = %q, want t-9", task.ID)
	}
}

func TestCreateTaskWithPreset(t *testing.T) {
	var gotBody map[string]interface{}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		io.WriteString(w, `{"id":"t-9","name":"gh-42","owner_name":"alice","status":"pending"}`)
	}))

	_, err := client.CreateTask(context.Background(), "alice", CreateTaskRequest{
		Name:                    "gh-42",
		TemplateVersionID:       "ver-7",
		TemplateVersionPresetID: "p-2",
		Input:                   "fix the bug",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if gotBody["template_version_preset_id"] != "p-2" {
		t.Errorf("preset id = %v, want p-2", gotBody["template_version_preset_id"])
	}
}

func TestCreateTaskValidatesBeforeNetwork(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	_, err := client.CreateTask(context.Background(), "alice", CreateTaskRequest{Name: "gh-42"})
	if !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("code = %v, want VALIDATION", errors.Code(err))
	}
	if calls != 0 {
		t.Errorf("expected no network call, got %d", calls)
	}
}

func TestSendInput(t *testing.T) {
	var gotPath string
	var gotBody SendInputRequest
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.SendInput(context.Background(), "alice", "t-2", "continue"); err != nil {
		t.Fatalf("SendInput: %v", err)
	}

	if gotPath != "/tasks/alice/t-2/send" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.Input != "continue" {
		t.Errorf("input = %q, want %q", gotBody.Input, "continue")
	}
}

func TestSendInputEmptyBody2xx(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.SendInput(context.Background(), "alice", "t-2", "continue"); err != nil {
		t.Fatalf("expected empty 2xx to succeed, got %v", err)
	}
}

func TestSendInputRejectsEmpty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call")
	}))

	err := client.SendInput(context.Background(), "alice", "t-2", "")
	if !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("code = %v, want VALIDATION", errors.Code(err))
	}
}
