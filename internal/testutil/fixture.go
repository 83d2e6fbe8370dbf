// Package testutil provides helpers for materializing project fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree materializes files (path -> contents) under a fresh temp
// directory and returns its root. Paths use forward slashes; parent
// directories are created as needed. Cleanup is automatic.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create dir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
	return root
}

// ReadFile reads a file, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether a path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ProjectFixture writes a minimal Sway project (Forc.toml + src/main.sw)
// with the given extra files merged in, and returns its root.
func ProjectFixture(t *testing.T, extra map[string]string) string {
	t.Helper()

	files := map[string]string{
		"Forc.toml": "[project]\n" +
			"authors = [\"tester\"]\n" +
			"entry = \"main.sw\"\n" +
			"license = \"Apache-2.0\"\n" +
			"name = \"fixture\"\n",
		"src/main.sw": "script;\n\nfn main() {}\n",
	}
	for rel, content := range extra {
		files[rel] = content
	}
	return WriteTree(t, files)
}
