package diagnose

import (
	"regexp"
	"strings"

	"pybundle/internal/i18n"
)

var moduleRe = regexp.MustCompile(`No module named ['"]([^'"]+)['"]`)

// match is the outcome of one rule against one transcript line.
type match struct {
	detail string
	module string
}

// rule probes a single line for a failure signature. Rules run in priority
// order over the whole transcript; the first rule with any match wins, so a
// specific signature always beats the generic nonzero-exit fallback.
type rule struct {
	id    SignatureID
	probe func(line string) (match, bool)
}

// Classifier inspects a complete build transcript once, after the process
// has exited. It is pure: the same transcript and exit code always produce
// the same Diagnostic.
type Classifier struct {
	catalog *i18n.Catalog
	python  string
	rules   []rule
	tail    int
}

// tailLines is how much raw log an unknown failure carries as detail.
const tailLines = 10

// NewClassifier builds the fixed signature table. python is the configured
// interpreter, used in remedy text. A nil catalog falls back to English.
func NewClassifier(catalog *i18n.Catalog, python string) *Classifier {
	if catalog == nil {
		catalog = i18n.Load("en")
	}
	python = strings.TrimSpace(python)
	if python == "" {
		python = "python"
	}
	return &Classifier{
		catalog: catalog,
		python:  python,
		tail:    tailLines,
		rules: []rule{
			{id: SignatureToolNotInstalled, probe: probeToolMissing},
			{id: SignatureMissingDependency, probe: probeMissingModule},
			{id: SignaturePermissionIssue, probe: probePermission},
			{id: SignatureSyntaxIssue, probe: probeSyntax},
		},
	}
}

// Classify returns nil for a clean exit, the first matching signature
// otherwise, and a generic unknown-failure diagnostic for an unexplained
// nonzero exit.
func (c *Classifier) Classify(lines []string, exitCode int) *Diagnostic {
	if exitCode == 0 {
		return nil
	}

	for _, r := range c.rules {
		for _, line := range lines {
			m, ok := r.probe(line)
			if !ok {
				continue
			}
			return c.render(r.id, m, exitCode)
		}
	}

	return &Diagnostic{
		ID:      SignatureUnknownFailure,
		Message: c.catalog.Format("diag.unknown.message", exitCode),
		Remedy:  c.catalog.Lookup("diag.unknown.remedy"),
		Detail:  strings.Join(tail(lines, c.tail), "\n"),
	}
}

func (c *Classifier) render(id SignatureID, m match, exitCode int) *Diagnostic {
	diag := &Diagnostic{ID: id, Detail: m.detail, Module: m.module}
	switch id {
	case SignatureToolNotInstalled:
		diag.Message = c.catalog.Lookup("diag.tool_not_installed.message")
		diag.Remedy = c.catalog.Format("diag.tool_not_installed.remedy", c.python)
	case SignatureMissingDependency:
		diag.Message = c.catalog.Format("diag.missing_dependency.message", m.module)
		diag.Remedy = c.catalog.Format("diag.missing_dependency.remedy", c.python, m.module)
	case SignaturePermissionIssue:
		diag.Message = c.catalog.Lookup("diag.permission.message")
		diag.Remedy = c.catalog.Lookup("diag.permission.remedy")
	case SignatureSyntaxIssue:
		diag.Message = c.catalog.Lookup("diag.syntax.message")
		diag.Remedy = c.catalog.Lookup("diag.syntax.remedy")
	default:
		diag.Message = c.catalog.Format("diag.unknown.message", exitCode)
		diag.Remedy = c.catalog.Lookup("diag.unknown.remedy")
	}
	return diag
}

func probeToolMissing(line string) (match, bool) {
	if m := moduleRe.FindStringSubmatch(line); m != nil {
		if strings.EqualFold(m[1], "PyInstaller") {
			return match{detail: strings.TrimSpace(line), module: m[1]}, true
		}
		return match{}, false
	}
	if strings.Contains(strings.ToLower(line), "no module named pyinstaller") {
		return match{detail: strings.TrimSpace(line)}, true
	}
	return match{}, false
}

func probeMissingModule(line string) (match, bool) {
	lower := strings.ToLower(line)
	if !strings.Contains(lower, "modulenotfounderror") && !strings.Contains(lower, "no module named") {
		return match{}, false
	}
	result := match{detail: strings.TrimSpace(line)}
	if m := moduleRe.FindStringSubmatch(line); m != nil {
		result.module = m[1]
	}
	return result, true
}

func probePermission(line string) (match, bool) {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "permissionerror") || strings.Contains(lower, "access is denied") {
		return match{detail: strings.TrimSpace(line)}, true
	}
	return match{}, false
}

func probeSyntax(line string) (match, bool) {
	if strings.Contains(strings.ToLower(line), "syntaxerror") {
		return match{detail: strings.TrimSpace(line)}, true
	}
	return match{}, false
}

func tail(lines []string, n int) []string {
	kept := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		kept = append(kept, lines[i])
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}
