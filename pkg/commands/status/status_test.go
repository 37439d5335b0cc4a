package status_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahim-ahmed05/dotmngr/pkg/commands/apply"
	"github.com/fahim-ahmed05/dotmngr/pkg/commands/status"
	"github.com/fahim-ahmed05/dotmngr/pkg/testutil"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

func setup(t *testing.T) (dir, cfgPath, src, dst string) {
	t.Helper()
	dir = t.TempDir()
	src = testutil.CreateFile(t, dir, "dotfiles/zshrc", "x")
	dst = filepath.Join(dir, "home", ".zshrc")
	t.Setenv("DOTMNGR_DATA_DIR", filepath.Join(dir, "data"))
	cfgPath = testutil.CreateFile(t, dir, "dotmngr.toml", fmt.Sprintf(`
[defaults]
mode = "symlink"

[groups.shell]

[[groups.shell.items]]
source = %q
destination = %q
`, src, dst))
	return dir, cfgPath, src, dst
}

func TestStatusReportsPresence(t *testing.T) {
	_, cfgPath, src, dst := setup(t)

	_, err := apply.Apply(apply.Options{ConfigPath: cfgPath})
	require.NoError(t, err)

	res, err := status.Status(status.Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	entry := res.Entries[0]
	assert.Equal(t, "shell", entry.Group)
	assert.Equal(t, dst, entry.Destination)
	assert.Equal(t, src, entry.Source)
	assert.Equal(t, types.ModeSymlink, entry.Mode)
	assert.True(t, entry.Present)
}

func TestStatusMissingDestination(t *testing.T) {
	_, cfgPath, _, dst := setup(t)

	_, err := apply.Apply(apply.Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	require.NoError(t, os.Remove(dst))

	res, err := status.Status(status.Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.False(t, res.Entries[0].Present)
}

func TestStatusDanglingSymlinkCountsPresent(t *testing.T) {
	_, cfgPath, src, _ := setup(t)

	_, err := apply.Apply(apply.Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	// The source vanishes; the link object itself still exists.
	require.NoError(t, os.Remove(src))

	res, err := status.Status(status.Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.True(t, res.Entries[0].Present)
}

func TestStatusNoStateYet(t *testing.T) {
	_, cfgPath, _, _ := setup(t)

	res, err := status.Status(status.Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	assert.False(t, res.NoData)
	assert.Empty(t, res.Entries)
}

func TestStatusCorruptStateIsNoData(t *testing.T) {
	dir, cfgPath, _, _ := setup(t)

	_, err := apply.Apply(apply.Options{ConfigPath: cfgPath})
	require.NoError(t, err)

	states, err := filepath.Glob(filepath.Join(dir, "data", "state", "*.json"))
	require.NoError(t, err)
	require.Len(t, states, 1)
	require.NoError(t, os.WriteFile(states[0], []byte("{ not json"), 0o644))

	res, err := status.Status(status.Options{ConfigPath: cfgPath})
	require.NoError(t, err, "unreadable state is reported, never fatal")
	assert.True(t, res.NoData)
	assert.Empty(t, res.Entries)
}
