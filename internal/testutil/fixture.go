// Package testutil provides fixture helpers for tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// ReadFixture returns the content of a fixture file.
func ReadFixture(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", path, err)
	}
	return string(data)
}

// LoadTree reads every regular file below root, keyed by slash-separated
// path relative to root.
func LoadTree(t testing.TB, root string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to load fixture tree %s: %v", root, err)
	}
	return files
}

// CopyTree copies the fixture tree at root into a fresh temporary
// directory and returns its path.
func CopyTree(t testing.TB, root string) string {
	t.Helper()
	dst := t.TempDir()
	for rel, text := range LoadTree(t, root) {
		path := filepath.Join(dst, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	return dst
}
