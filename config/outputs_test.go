package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputsWrite(t *testing.T) {
	out := Outputs{
		Username: "alice",
		TaskName: "gh-42",
		TaskURL:  "https://h.test/tasks/alice/t-1",
		Created:  true,
	}
	var sb strings.Builder
	if err := out.Write(&sb); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "username=alice\ntask_name=gh-42\ntask_url=https://h.test/tasks/alice/t-1\ncreated=true\n"
	if sb.String() != want {
		t.Errorf("Write rendered %q, want %q", sb.String(), want)
	}
}

func TestOutputsWriteReusedTask(t *testing.T) {
	var sb strings.Builder
	if err := (Outputs{Username: "bob", TaskName: "gh-7", TaskURL: "u", Created: false}).Write(&sb); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(sb.String(), "created=false\n") {
		t.Errorf("Write rendered %q, want created=false", sb.String())
	}
}

func TestOutputsEmitAppendsToGithubOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "github_output")
	if err := os.WriteFile(path, []byte("existing=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GITHUB_OUTPUT", path)

	out := Outputs{Username: "alice", TaskName: "gh-42", TaskURL: "https://h.test/t", Created: false}
	if err := out.Emit(); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.HasPrefix(got, "existing=1\n") {
		t.Errorf("Emit should append, file now %q", got)
	}
	if !strings.Contains(got, "task_name=gh-42\n") {
		t.Errorf("outputs missing from file: %q", got)
	}
}

func TestOutputsEmitCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "github_output")
	t.Setenv("GITHUB_OUTPUT", path)

	if err := (Outputs{Username: "a", TaskName: "b", TaskURL: "c"}).Emit(); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Emit should create the outputs file: %v", err)
	}
}
