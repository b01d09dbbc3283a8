package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))

	logger.With(String(FieldComponent, "engine")).Info("build started", String("script", "app.py"))

	line := buf.String()
	if !strings.Contains(line, "INFO engine: build started") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "script=app.py") {
		t.Fatalf("missing attr in console line: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))

	logger.Warn("spawn failed", String("detail", "access is denied"))

	if !strings.Contains(buf.String(), `detail="access is denied"`) {
		t.Fatalf("expected quoted attr, got %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("should not panic", Error(nil))
	if logger.Enabled(nil, slog.LevelError) { //nolint:staticcheck
		t.Fatal("expected no-op logger to be disabled")
	}
}
