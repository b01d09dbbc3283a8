package main

import (
	"strings"
	"testing"
	"time"

	"pybundle/internal/history"
)

func TestRenderSessionTableColumns(t *testing.T) {
	finished := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	records := []history.Record{
		{
			SessionID:   "s-failed",
			Script:      "/work/app.py",
			Outcome:     "failed",
			ExitCode:    1,
			SignatureID: "missing_dependency",
			Duration:    1500 * time.Millisecond,
			FinishedAt:  finished,
		},
		{
			SessionID:  "s-ok",
			Script:     "/work/tool.py",
			Outcome:    "succeeded",
			ExitCode:   0,
			Duration:   2 * time.Second,
			FinishedAt: finished.Add(-time.Minute),
		},
	}

	rendered := renderSessionTable(records, false)
	for _, want := range []string{
		"Finished", "Script", "Outcome", "Exit", "Duration", "Diagnosis",
		"/work/app.py", "failed", "missing_dependency", "1.5s",
		"/work/tool.py", "succeeded",
	} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("table missing %q:\n%s", want, rendered)
		}
	}
	if strings.Contains(rendered, "\x1b[") {
		t.Fatalf("plain table must not contain ANSI escapes:\n%s", rendered)
	}
}

func TestOutcomeCellPassesUnknownThrough(t *testing.T) {
	if got := outcomeCell("weird"); got != "weird" {
		t.Fatalf("unexpected cell value: %q", got)
	}
}
