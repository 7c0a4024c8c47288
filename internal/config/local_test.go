package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLocal(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, LocalConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func TestLoadLocal_NoFile(t *testing.T) {
	t.Parallel()

	local, err := LoadLocal(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if local != nil {
		t.Fatalf("expected nil, got %+v", local)
	}
}

func TestLoadLocal_EmptyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLocal(t, dir, "")

	local, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if local == nil {
		t.Fatal("expected non-nil local config for empty file")
	}
}

func TestLoadLocal_AllFields(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLocal(t, dir, `
[doctor]
concurrency = 2
fail_fast = false

[rules]
enable = ["tabs"]
disable = ["todo"]
max_line_length = 72
tab_width = 8

[files]
include = ["*.rst"]
exclude = ["build"]
`)

	local, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if local.Doctor.Concurrency == nil || *local.Doctor.Concurrency != 2 {
		t.Errorf("doctor.concurrency = %v", local.Doctor.Concurrency)
	}
	if local.Doctor.FailFast == nil || *local.Doctor.FailFast {
		t.Errorf("doctor.fail_fast = %v, want explicit false", local.Doctor.FailFast)
	}
	if *local.Rules.MaxLineLength != 72 || *local.Rules.TabWidth != 8 {
		t.Errorf("rules = %+v", local.Rules)
	}
	if len(local.Files.Include) != 1 || local.Files.Exclude[0] != "build" {
		t.Errorf("files = %+v", local.Files)
	}
}

func TestLoadLocal_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"auto approve is global only", "[doctor]\nauto_approve = true\n", "doctor.auto_approve"},
		{"unknown rule", "[rules]\nenable = [\"tab\"]\n", `unknown rule "tab" in rules.enable`},
		{"negative width", "[rules]\ntab_width = -4\n", "rules.tab_width"},
		{"parse error", "rules = [", "failed to parse local config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeLocal(t, dir, tt.content)
			_, err := LoadLocal(dir)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestFindLocal(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeLocal(t, root, "")
	deep := filepath.Join(root, "docs", "guides")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindLocal(deep)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindLocal() = %q, want %q", got, want)
	}
}
