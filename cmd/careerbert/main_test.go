package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/UtsavYadav1/CareerBERT/internal/history"
)

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"analyze", "results", "report", "history", "serve"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("command %q not registered: %v", name, err)
		}
	}
}

func TestAnalyzeRequiresResume(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"analyze"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected missing argument error")
	}
}

func TestPrintHistory(t *testing.T) {
	overall := 72
	entries := []history.Entry{{
		Filename:  "resume.pdf",
		JobTitle:  "Go Developer",
		Overall:   &overall,
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}}
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	if err := printHistory(cmd, entries); err != nil {
		t.Fatalf("printHistory: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "resume.pdf") || !strings.Contains(out, "72%") || !strings.Contains(out, "-") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	buf.Reset()
	_ = printHistory(cmd, nil)
	if !strings.Contains(buf.String(), "No analyses recorded yet.") {
		t.Fatalf("expected empty message, got %q", buf.String())
	}
}
