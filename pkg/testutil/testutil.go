// Package testutil provides shared helpers for tests that exercise real
// filesystem behavior: building files, trees, and links under t.TempDir.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// CreateFile creates a file with the given content, fatally failing the
// test on error. Parent directories are created as needed.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent directories for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create file %s: %v", path, err)
	}
	return path
}

// CreateDir creates a directory under parent and returns its path.
func CreateDir(t *testing.T, parent, name string) string {
	t.Helper()

	path := filepath.Join(parent, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
	return path
}

// CreateSymlink creates a symbolic link at link pointing to target.
func CreateSymlink(t *testing.T, target, link string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
		t.Fatalf("failed to create parent directory for symlink %s: %v", link, err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("failed to create symlink %s -> %s: %v", link, target, err)
	}
}

// ReadFile reads a file's content, fatally failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether a path exists, without following symlinks.
func Exists(t *testing.T, path string) bool {
	t.Helper()

	_, err := os.Lstat(path)
	if err == nil {
		return true
	}
	if os.IsNotExist(err) {
		return false
	}
	t.Fatalf("failed to stat %s: %v", path, err)
	return false
}
