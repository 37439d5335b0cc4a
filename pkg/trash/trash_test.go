package trash_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahim-ahmed05/dotmngr/pkg/filesystem"
	"github.com/fahim-ahmed05/dotmngr/pkg/trash"
)

func TestDisplaceToTrash(t *testing.T) {
	dir := t.TempDir()
	trashDir := filepath.Join(dir, "trash")
	victim := filepath.Join(dir, "victim.txt")
	require.NoError(t, os.WriteFile(victim, []byte("spare me"), 0o644))

	svc := trash.New(filesystem.NewOS(), trashDir, true)
	require.NoError(t, svc.Displace(victim))

	_, err := os.Lstat(victim)
	assert.True(t, os.IsNotExist(err), "original must be gone")

	held, err := os.ReadFile(filepath.Join(trashDir, "files", "victim.txt"))
	require.NoError(t, err)
	assert.Equal(t, "spare me", string(held))

	manifestData, err := os.ReadFile(filepath.Join(trashDir, "info", "victim.txt.trashinfo.toml"))
	require.NoError(t, err)

	var manifest trash.Manifest
	require.NoError(t, toml.Unmarshal(manifestData, &manifest))
	assert.Equal(t, victim, manifest.OriginalPath)
	assert.False(t, manifest.DisplacedAt.IsZero())
}

func TestDisplaceCollidingNames(t *testing.T) {
	dir := t.TempDir()
	trashDir := filepath.Join(dir, "trash")

	first := filepath.Join(dir, "a", "config")
	second := filepath.Join(dir, "b", "config")
	require.NoError(t, os.MkdirAll(filepath.Dir(first), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(second), 0o755))
	require.NoError(t, os.WriteFile(first, []byte("one"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("two"), 0o644))

	svc := trash.New(filesystem.NewOS(), trashDir, true)
	require.NoError(t, svc.Displace(first))
	require.NoError(t, svc.Displace(second))

	one, err := os.ReadFile(filepath.Join(trashDir, "files", "config"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(one))

	two, err := os.ReadFile(filepath.Join(trashDir, "files", "config.1"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(two))
}

func TestDisplaceDirectory(t *testing.T) {
	dir := t.TempDir()
	trashDir := filepath.Join(dir, "trash")
	victim := filepath.Join(dir, "tree")
	require.NoError(t, os.MkdirAll(filepath.Join(victim, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(victim, "sub", "f.txt"), []byte("x"), 0o644))

	svc := trash.New(filesystem.NewOS(), trashDir, true)
	require.NoError(t, svc.Displace(victim))

	_, err := os.Lstat(victim)
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(filepath.Join(trashDir, "files", "tree", "sub", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestDisplaceDisabledDeletes(t *testing.T) {
	dir := t.TempDir()
	trashDir := filepath.Join(dir, "trash")
	victim := filepath.Join(dir, "victim.txt")
	require.NoError(t, os.WriteFile(victim, []byte("gone"), 0o644))

	svc := trash.New(filesystem.NewOS(), trashDir, false)
	require.NoError(t, svc.Displace(victim))

	_, err := os.Lstat(victim)
	assert.True(t, os.IsNotExist(err))

	_, err = os.Lstat(trashDir)
	assert.True(t, os.IsNotExist(err), "disabled trash must not create a holding dir")
}

func TestDisplaceMissingPath(t *testing.T) {
	dir := t.TempDir()

	svc := trash.New(filesystem.NewOS(), filepath.Join(dir, "trash"), true)
	err := svc.Displace(filepath.Join(dir, "ghost"))
	assert.Error(t, err)
}
