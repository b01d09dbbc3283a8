package diagnose

import (
	"fmt"
	"strings"
	"testing"

	"pybundle/internal/i18n"
	"pybundle/internal/pyinstaller"
)

func newTestClassifier() *Classifier {
	return NewClassifier(i18n.Load("en"), "python")
}

func TestClassifyCleanExitHasNoDiagnostic(t *testing.T) {
	c := newTestClassifier()
	lines := []string{
		"INFO: PyInstaller: 6.3.0",
		"PermissionError mentioned in passing", // exit 0 wins regardless
		"INFO: Building EXE completed successfully.",
	}
	if diag := c.Classify(lines, 0); diag != nil {
		t.Fatalf("expected nil diagnostic for exit 0, got %+v", diag)
	}
}

func TestClassifyToolNotInstalled(t *testing.T) {
	c := newTestClassifier()
	lines := []string{"/usr/bin/python: No module named 'PyInstaller'"}
	diag := c.Classify(lines, 1)
	if diag == nil || diag.ID != SignatureToolNotInstalled {
		t.Fatalf("expected tool_not_installed, got %+v", diag)
	}
	if !strings.Contains(diag.Remedy, "pip install pyinstaller") {
		t.Fatalf("unexpected remedy: %q", diag.Remedy)
	}
}

func TestClassifyToolNotInstalledUnquotedForm(t *testing.T) {
	c := newTestClassifier()
	lines := []string{"C:\\Python312\\python.exe: No module named PyInstaller"}
	diag := c.Classify(lines, 1)
	if diag == nil || diag.ID != SignatureToolNotInstalled {
		t.Fatalf("expected tool_not_installed, got %+v", diag)
	}
}

func TestClassifyMissingDependencyNamesModule(t *testing.T) {
	c := newTestClassifier()
	lines := []string{
		"Traceback (most recent call last):",
		`  File "app.py", line 2, in <module>`,
		"ModuleNotFoundError: No module named 'six'",
		"ERROR: build failed",
	}
	diag := c.Classify(lines, 1)
	if diag == nil || diag.ID != SignatureMissingDependency {
		t.Fatalf("expected missing_dependency, got %+v", diag)
	}
	if diag.Module != "six" {
		t.Fatalf("expected module six, got %q", diag.Module)
	}
	if !strings.Contains(diag.Remedy, "pip install six") {
		t.Fatalf("unexpected remedy: %q", diag.Remedy)
	}
}

func TestClassifyMissingDependencyBeatsGenericFailure(t *testing.T) {
	c := newTestClassifier()
	// Generic error text is present too; the specific signature must win
	// over unknown_failure on a nonzero exit.
	lines := []string{
		"ERROR: something exploded",
		"No module named 'six'",
	}
	diag := c.Classify(lines, 2)
	if diag == nil || diag.ID != SignatureMissingDependency {
		t.Fatalf("expected missing_dependency to beat unknown, got %+v", diag)
	}
}

func TestClassifyPyInstallerMissingBeatsMissingDependency(t *testing.T) {
	c := newTestClassifier()
	lines := []string{
		"ModuleNotFoundError: No module named 'requests'",
		"No module named 'PyInstaller'",
	}
	diag := c.Classify(lines, 1)
	if diag == nil || diag.ID != SignatureToolNotInstalled {
		t.Fatalf("expected tool_not_installed priority, got %+v", diag)
	}
}

func TestClassifyPermissionIssue(t *testing.T) {
	c := newTestClassifier()
	lines := []string{"PermissionError: [Errno 13] Access is denied"}
	diag := c.Classify(lines, 1)
	if diag == nil || diag.ID != SignaturePermissionIssue {
		t.Fatalf("expected permission_issue, got %+v", diag)
	}
	if diag.Detail != "PermissionError: [Errno 13] Access is denied" {
		t.Fatalf("unexpected detail: %q", diag.Detail)
	}
}

func TestClassifySyntaxIssue(t *testing.T) {
	c := newTestClassifier()
	lines := []string{`SyntaxError: invalid syntax (app.py, line 7)`}
	diag := c.Classify(lines, 1)
	if diag == nil || diag.ID != SignatureSyntaxIssue {
		t.Fatalf("expected syntax_issue, got %+v", diag)
	}
}

func TestClassifyUnknownFailureCarriesTail(t *testing.T) {
	c := newTestClassifier()
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	lines = append(lines, "", "   ")
	diag := c.Classify(lines, 7)
	if diag == nil || diag.ID != SignatureUnknownFailure {
		t.Fatalf("expected unknown_failure, got %+v", diag)
	}
	if !strings.Contains(diag.Message, "7") {
		t.Fatalf("expected exit code in message: %q", diag.Message)
	}
	tail := strings.Split(diag.Detail, "\n")
	if len(tail) != tailLines {
		t.Fatalf("expected %d tail lines, got %d", tailLines, len(tail))
	}
	if tail[0] != "line 20" || tail[len(tail)-1] != "line 29" {
		t.Fatalf("unexpected tail window: %v", tail)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := newTestClassifier()
	lines := []string{"No module named 'requests'", "ERROR: failed"}
	first := c.Classify(lines, 1)
	second := c.Classify(lines, 1)
	if first == nil || second == nil || *first != *second {
		t.Fatalf("classification not deterministic: %+v vs %+v", first, second)
	}
}

func TestClassifyChineseCatalog(t *testing.T) {
	c := NewClassifier(i18n.Load("zh-CN"), "python")
	diag := c.Classify([]string{"PermissionError: denied"}, 1)
	if diag == nil || !strings.Contains(diag.Message, "权限") {
		t.Fatalf("expected zh-CN message, got %+v", diag)
	}
}

func TestFromSpawnErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want SignatureID
	}{
		{fmt.Errorf("wrap: %w", pyinstaller.ErrToolNotFound), SignatureToolNotFound},
		{fmt.Errorf("wrap: %w", pyinstaller.ErrPermissionDenied), SignatureSpawnPermission},
		{fmt.Errorf("wrap: %w", pyinstaller.ErrSpawnFailed), SignatureSpawnFailed},
		{fmt.Errorf("%w: read output: token too long", pyinstaller.ErrRunFailed), SignatureRunFailure},
	}
	for _, tc := range cases {
		diag := FromSpawnError(nil, "python", tc.err)
		if diag.ID != tc.want {
			t.Fatalf("expected %s for %v, got %s", tc.want, tc.err, diag.ID)
		}
		if diag.Detail == "" {
			t.Fatalf("expected detail for %v", tc.err)
		}
	}
}

func TestFromValidationError(t *testing.T) {
	diag := FromValidationError(nil, "script path required")
	if diag.ID != SignatureValidation {
		t.Fatalf("unexpected id: %s", diag.ID)
	}
	if !strings.Contains(diag.Message, "script path required") {
		t.Fatalf("expected detail in message: %q", diag.Message)
	}
}
