package apply_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahim-ahmed05/dotmngr/pkg/commands/apply"
	"github.com/fahim-ahmed05/dotmngr/pkg/errors"
	"github.com/fahim-ahmed05/dotmngr/pkg/reconciler"
	"github.com/fahim-ahmed05/dotmngr/pkg/testutil"
)

func symlinkConfig(src, dst string) string {
	return fmt.Sprintf(`
[defaults]
mode = "symlink"

[groups.shell]

[[groups.shell.items]]
source = %q
destination = %q
`, src, dst)
}

func stateFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "data", "state", "*.json"))
	require.NoError(t, err)
	return matches
}

func TestApplyCreatesAndPersists(t *testing.T) {
	dir := t.TempDir()
	src := testutil.CreateFile(t, dir, "dotfiles/zshrc", "export EDITOR=vi")
	dst := filepath.Join(dir, "home", ".zshrc")
	t.Setenv("DOTMNGR_DATA_DIR", filepath.Join(dir, "data"))
	cfgPath := testutil.CreateFile(t, dir, "dotmngr.toml", symlinkConfig(src, dst))

	res, err := apply.Apply(apply.Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	assert.Equal(t, []string{"shell"}, res.Groups)
	assert.Equal(t, 1, res.Report.Count(reconciler.OutcomeCreated))
	assert.False(t, res.StateReset)

	target, err := os.Readlink(dst)
	require.NoError(t, err)
	assert.Equal(t, src, target)

	require.Len(t, stateFiles(t, dir), 1, "state persists under the data dir")

	// Second run converges to no-ops.
	res, err = apply.Apply(apply.Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Report.Count(reconciler.OutcomeUnchanged))
	assert.Equal(t, 0, res.Report.Count(reconciler.OutcomeCreated))
}

func TestApplyDryRunPersistsNothing(t *testing.T) {
	dir := t.TempDir()
	src := testutil.CreateFile(t, dir, "dotfiles/zshrc", "x")
	dst := filepath.Join(dir, "home", ".zshrc")
	t.Setenv("DOTMNGR_DATA_DIR", filepath.Join(dir, "data"))
	cfgPath := testutil.CreateFile(t, dir, "dotmngr.toml", symlinkConfig(src, dst))

	res, err := apply.Apply(apply.Options{ConfigPath: cfgPath, DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.Report.DryRun)
	assert.Equal(t, 1, res.Report.Count(reconciler.OutcomeCreated))

	assert.False(t, testutil.Exists(t, dst))
	assert.Empty(t, stateFiles(t, dir), "dry-run must not persist state")
}

func TestApplyFatalSkipsPersist(t *testing.T) {
	dir := t.TempDir()
	src := testutil.CreateFile(t, dir, "dotfiles/zshrc", "x")
	dst := filepath.Join(dir, "home", ".zshrc")
	t.Setenv("DOTMNGR_DATA_DIR", filepath.Join(dir, "data"))
	cfgPath := testutil.CreateFile(t, dir, "dotmngr.toml", fmt.Sprintf(`
[defaults]
mode = "teleport"

[groups.shell]

[[groups.shell.items]]
source = %q
destination = %q
`, src, dst))

	_, err := apply.Apply(apply.Options{ConfigPath: cfgPath})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUnknownMode))
	assert.False(t, testutil.Exists(t, dst))
	assert.Empty(t, stateFiles(t, dir))
}

func TestApplyUnknownGroupFatal(t *testing.T) {
	dir := t.TempDir()
	src := testutil.CreateFile(t, dir, "dotfiles/zshrc", "x")
	dst := filepath.Join(dir, "home", ".zshrc")
	t.Setenv("DOTMNGR_DATA_DIR", filepath.Join(dir, "data"))
	cfgPath := testutil.CreateFile(t, dir, "dotmngr.toml", symlinkConfig(src, dst))

	_, err := apply.Apply(apply.Options{ConfigPath: cfgPath, Groups: []string{"ghost"}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrGroupNotFound))
}

func TestApplyDisabledGroupNeedsExplicitSelection(t *testing.T) {
	dir := t.TempDir()
	src := testutil.CreateFile(t, dir, "dotfiles/zshrc", "x")
	dst := filepath.Join(dir, "home", ".zshrc")
	t.Setenv("DOTMNGR_DATA_DIR", filepath.Join(dir, "data"))
	cfgPath := testutil.CreateFile(t, dir, "dotmngr.toml", fmt.Sprintf(`
[defaults]
mode = "symlink"

[groups.shell]
enabled = false

[[groups.shell.items]]
source = %q
destination = %q
`, src, dst))

	res, err := apply.Apply(apply.Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	assert.Empty(t, res.Groups, "disabled groups stay out of the default selection")
	assert.False(t, testutil.Exists(t, dst))

	res, err = apply.Apply(apply.Options{ConfigPath: cfgPath, Groups: []string{"shell"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Report.Count(reconciler.OutcomeCreated))
	assert.True(t, testutil.Exists(t, dst))
}

func TestApplyRecoversFromCorruptState(t *testing.T) {
	dir := t.TempDir()
	src := testutil.CreateFile(t, dir, "dotfiles/zshrc", "x")
	dst := filepath.Join(dir, "home", ".zshrc")
	t.Setenv("DOTMNGR_DATA_DIR", filepath.Join(dir, "data"))
	cfgPath := testutil.CreateFile(t, dir, "dotmngr.toml", symlinkConfig(src, dst))

	_, err := apply.Apply(apply.Options{ConfigPath: cfgPath})
	require.NoError(t, err)

	states := stateFiles(t, dir)
	require.Len(t, states, 1)
	require.NoError(t, os.WriteFile(states[0], []byte("{ not json"), 0o644))

	// The run starts from empty state, re-verifies the link on disk, and
	// re-tracks it.
	res, err := apply.Apply(apply.Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	assert.True(t, res.StateReset)
	assert.Equal(t, 1, res.Report.Count(reconciler.OutcomeUnchanged))

	res, err = apply.Apply(apply.Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	assert.False(t, res.StateReset, "the persisted state is whole again")
}
