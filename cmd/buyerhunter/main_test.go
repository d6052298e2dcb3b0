package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/homestarrealty/buyerhunter/internal/app"
)

// Smoke test: run scans a file and writes the CSV export.
func TestRun_FileToCSV(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "chat.txt")
	out := filepath.Join(dir, "leads.csv")
	if err := os.WriteFile(in, []byte("Rahul: call 9876543210\nPriya: +91-8123456789"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	var stdout bytes.Buffer
	if err := run(app.Config{InputPath: in, CSVPath: out}, nil, &stdout); err != nil {
		t.Fatalf("run error: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if string(b) != "Phone Number\n9876543210\n+91-8123456789\n" {
		t.Fatalf("unexpected csv %q", b)
	}
	if !strings.Contains(stdout.String(), "Rahul, Priya") {
		t.Fatalf("unexpected summary:\n%s", stdout.String())
	}
}

func TestRun_EmptyInputExitCode(t *testing.T) {
	err := run(app.Config{InputPath: "-"}, strings.NewReader("\n\n"), nil)
	if !errors.Is(err, app.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if code := exitCode(err); code != 2 {
		t.Fatalf("exit code %d, want 2", code)
	}
	if code := exitCode(fmt.Errorf("boom")); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if code := exitCode(nil); code != 0 {
		t.Fatalf("exit code %d, want 0", code)
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg app.Config
	applyDefaults(&cfg)
	if cfg.InputPath != "-" || cfg.ListenAddr != "localhost:8501" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	cfg = app.Config{SourceURL: "https://x.example"}
	applyDefaults(&cfg)
	if cfg.InputPath != "" {
		t.Fatalf("URL input should not default to stdin")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" Mumbai, ,Pune ")
	if len(got) != 2 || got[0] != "Mumbai" || got[1] != "Pune" {
		t.Fatalf("splitList=%q", got)
	}
	if splitList("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
