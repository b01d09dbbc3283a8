package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteScript creates a small Python entry script at the given path and
// returns the path. Missing parent directories are created.
func WriteScript(t testing.TB, path string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	content := []byte("print(\"hello\")\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
