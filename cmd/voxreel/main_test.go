package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out.String(), "voxreel ") {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

func TestConfigInitCreatesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("sample config not written: %v", err)
	}
	if !strings.Contains(string(data), "[providers]") {
		t.Fatalf("sample config missing providers section:\n%s", data)
	}

	// A second init without --overwrite must refuse.
	cmd = newRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}

	cmd = newRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"config", "init", "--path", target, "--overwrite"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestResolveScript(t *testing.T) {
	if got, err := resolveScript(nil, "hello", ""); err != nil || got != "hello" {
		t.Fatalf("--text should win: %q %v", got, err)
	}

	file := filepath.Join(t.TempDir(), "script.txt")
	if err := os.WriteFile(file, []byte("from file"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, err := resolveScript(nil, "", file); err != nil || got != "from file" {
		t.Fatalf("--text-file: %q %v", got, err)
	}

	if got, err := resolveScript(strings.NewReader("from stdin"), "", "-"); err != nil || got != "from stdin" {
		t.Fatalf("stdin: %q %v", got, err)
	}

	if _, err := resolveScript(nil, "", ""); err == nil {
		t.Fatal("no script source should error")
	}
}

func TestRedactKey(t *testing.T) {
	if got := redactKey(""); got != "" {
		t.Errorf("empty key should stay empty, got %q", got)
	}
	if got := redactKey("abc"); got != "****" {
		t.Errorf("short key = %q", got)
	}
	if got := redactKey("abcdefgh"); got != "abcd****" {
		t.Errorf("long key = %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"1", "2"}, {"3"}}, []columnAlignment{alignLeft, alignRight})
	if !strings.Contains(out, "A") || !strings.Contains(out, "3") {
		t.Fatalf("table missing content:\n%s", out)
	}
}
