package mirror_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahim-ahmed05/dotmngr/pkg/filesystem"
	"github.com/fahim-ahmed05/dotmngr/pkg/mirror"
)

func TestSeverityAndClass(t *testing.T) {
	tests := []struct {
		name     string
		stats    mirror.Stats
		severity int
		class    mirror.Class
	}{
		{"nothing_to_do", mirror.Stats{Skipped: 3}, 0, mirror.ClassSuccess},
		{"copied", mirror.Stats{Copied: 2}, 1, mirror.ClassSuccess},
		{"copied_with_extras", mirror.Stats{Copied: 1, Extras: 4}, 3, mirror.ClassSuccess},
		{"mismatch_warns", mirror.Stats{Copied: 1, Mismatches: 1}, 5, mirror.ClassWarning},
		{"failure", mirror.Stats{Failures: 1}, 8, mirror.ClassFailure},
		{"everything", mirror.Stats{Copied: 1, Extras: 1, Mismatches: 1, Failures: 1}, 15, mirror.ClassFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.severity, tt.stats.Severity())
			assert.Equal(t, tt.class, tt.stats.Classify())
		})
	}
}

func TestMirrorSingleFile(t *testing.T) {
	fsys := filesystem.NewOS()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "sub", "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("v1"), 0o644))

	m := mirror.NewNative(fsys)

	first, err := m.Mirror(src, dst, mirror.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Copied)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	// Second invocation finds an identical destination and leaves it alone.
	second, err := m.Mirror(src, dst, mirror.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Copied)
	assert.Equal(t, 1, second.Skipped)
}

func TestMirrorSkipNewerDest(t *testing.T) {
	fsys := filesystem.NewOS()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("from-source"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("newer-local-edit"), 0o644))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(src, old, old))

	m := mirror.NewNative(fsys)

	stats, err := m.Mirror(src, dst, mirror.Options{SkipNewerDest: true})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "newer-local-edit", string(data), "newer destination must survive")

	// Without the flag the destination is clobbered.
	stats, err = m.Mirror(src, dst, mirror.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Copied)

	data, err = os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "from-source", string(data))
}

func TestMirrorStaleDestRefreshed(t *testing.T) {
	fsys := filesystem.NewOS()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("fresh"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("stale"), 0o644))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(dst, old, old))

	stats, err := mirror.NewNative(fsys).Mirror(src, dst, mirror.Options{SkipNewerDest: true})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Copied)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}

func TestMirrorRecursiveTree(t *testing.T) {
	fsys := filesystem.NewOS()
	dir := t.TempDir()
	src := filepath.Join(dir, "tree")
	dst := filepath.Join(dir, "out")

	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested", "deep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "deep", "c.txt"), []byte("c"), 0o644))

	stats, err := mirror.NewNative(fsys).Mirror(src, dst, mirror.Options{Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Copied)
	assert.Equal(t, mirror.ClassSuccess, stats.Classify())

	data, err := os.ReadFile(filepath.Join(dst, "nested", "deep", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, "c", string(data))

	// Idempotent on rerun.
	stats, err = mirror.NewNative(fsys).Mirror(src, dst, mirror.Options{Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Copied)
	assert.Equal(t, 3, stats.Skipped)
}

func TestMirrorNonRecursiveTopLevelOnly(t *testing.T) {
	fsys := filesystem.NewOS()
	dir := t.TempDir()
	src := filepath.Join(dir, "tree")
	dst := filepath.Join(dir, "out")

	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "b.txt"), []byte("b"), 0o644))

	stats, err := mirror.NewNative(fsys).Mirror(src, dst, mirror.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Copied)

	_, err = os.Lstat(filepath.Join(dst, "nested"))
	assert.True(t, os.IsNotExist(err), "subdirectories stay behind without the recursive flag")
}

func TestMirrorCountsExtrasAndKeepsThem(t *testing.T) {
	fsys := filesystem.NewOS()
	dir := t.TempDir()
	src := filepath.Join(dir, "tree")
	dst := filepath.Join(dir, "out")

	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.MkdirAll(dst, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "local-only.txt"), []byte("keep me"), 0o644))

	stats, err := mirror.NewNative(fsys).Mirror(src, dst, mirror.Options{Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Copied)
	assert.Equal(t, 1, stats.Extras)
	assert.Equal(t, mirror.ClassSuccess, stats.Classify())

	data, err := os.ReadFile(filepath.Join(dst, "local-only.txt"))
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))
}

func TestMirrorTypeMismatch(t *testing.T) {
	fsys := filesystem.NewOS()
	dir := t.TempDir()
	src := filepath.Join(dir, "tree")
	dst := filepath.Join(dir, "out")

	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "thing"), []byte("file"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dst, "thing"), 0o755))

	stats, err := mirror.NewNative(fsys).Mirror(src, dst, mirror.Options{Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Mismatches)
	assert.Equal(t, mirror.ClassWarning, stats.Classify())

	info, err := os.Stat(filepath.Join(dst, "thing"))
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "mismatched destination must stay untouched")
}

func TestMirrorMissingSource(t *testing.T) {
	fsys := filesystem.NewOS()
	dir := t.TempDir()

	_, err := mirror.NewNative(fsys).Mirror(filepath.Join(dir, "ghost"), filepath.Join(dir, "out"), mirror.Options{})
	assert.Error(t, err)
}
