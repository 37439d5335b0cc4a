package statestore_test

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahim-ahmed05/dotmngr/pkg/errors"
	"github.com/fahim-ahmed05/dotmngr/pkg/filesystem"
	"github.com/fahim-ahmed05/dotmngr/pkg/statestore"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

const statePath = "/data/state/dotmngr-abc123def456.json"

func newStore() (*statestore.Store, types.FS) {
	fsys := filesystem.NewAferoFS(afero.NewMemMapFs())
	return statestore.New(fsys, statePath), fsys
}

func entry(dest, source string, mode types.Mode) types.Entry {
	return types.Entry{Destination: dest, Source: source, Mode: mode}
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	store, _ := newStore()

	doc, err := store.Load("/cfg/dotmngr.toml")
	require.NoError(t, err)
	assert.Empty(t, doc.Groups)
	assert.Equal(t, "/cfg/dotmngr.toml", doc.ConfigPath)
}

func TestLoadCorruptFile(t *testing.T) {
	store, fsys := newStore()
	require.NoError(t, fsys.MkdirAll("/data/state", 0o755))
	require.NoError(t, fsys.WriteFile(statePath, []byte("{not json"), 0o644))

	doc, err := store.Load("/cfg/dotmngr.toml")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrStateCorrupt))
	assert.False(t, errors.IsFatal(err), "corrupt state recovers locally")
	require.NotNil(t, doc, "corrupt state still yields a usable empty document")
	assert.Empty(t, doc.Groups)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	store, _ := newStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	doc := statestore.NewDocument("/cfg/dotmngr.toml")
	doc.SetEntry("shell", entry("/home/u/.zshrc", "/home/u/dotfiles/zshrc", types.ModeSymlink).Touched(now), now)
	doc.SetEntry("shell", entry("/home/u/.gitconfig", "/home/u/dotfiles/gitconfig", types.ModeHardlink).Touched(now), now)
	doc.SetEntry("apps", types.Entry{
		Destination: "/home/u/Desktop/tool.desktop",
		Source:      "/opt/tool/bin/tool",
		Mode:        types.ModeShortcut,
		Shortcut:    &types.ShortcutSpec{WorkingDir: "/opt/tool", WindowStyle: types.WindowMaximized},
		UpdatedAt:   now,
	}, now)
	require.NoError(t, store.Save(doc, now))

	loaded, err := store.Load("/cfg/dotmngr.toml")
	require.NoError(t, err)
	assert.Equal(t, []string{"apps", "shell"}, loaded.GroupNames())
	assert.Len(t, loaded.Entries("shell"), 2)

	got, ok := loaded.Entry("apps", "/home/u/Desktop/tool.desktop")
	require.True(t, ok)
	assert.Equal(t, types.ModeShortcut, got.Mode)
	require.NotNil(t, got.Shortcut)
	assert.Equal(t, types.WindowMaximized, got.Shortcut.WindowStyle)
	assert.True(t, got.UpdatedAt.Equal(now))
}

func TestDropEntryPrunesEmptyGroup(t *testing.T) {
	now := time.Now()
	doc := statestore.NewDocument("/cfg/dotmngr.toml")
	doc.SetEntry("shell", entry("/a", "/src/a", types.ModeSymlink), now)
	doc.SetEntry("shell", entry("/b", "/src/b", types.ModeSymlink), now)

	doc.DropEntry("shell", "/a", now)
	assert.Len(t, doc.Entries("shell"), 1)

	doc.DropEntry("shell", "/b", now)
	assert.Empty(t, doc.GroupNames(), "a group with no entries disappears")

	doc.DropEntry("ghost", "/x", now)
}

func TestDropGroup(t *testing.T) {
	now := time.Now()
	doc := statestore.NewDocument("/cfg/dotmngr.toml")
	doc.SetEntry("shell", entry("/a", "/src/a", types.ModeSymlink), now)
	doc.SetEntry("apps", entry("/b", "/src/b", types.ModeJunction), now)

	doc.DropGroup("shell")
	assert.Equal(t, []string{"apps"}, doc.GroupNames())
}

func TestEntriesReturnsSnapshot(t *testing.T) {
	now := time.Now()
	doc := statestore.NewDocument("/cfg/dotmngr.toml")
	doc.SetEntry("shell", entry("/a", "/src/a", types.ModeSymlink), now)

	snapshot := doc.Entries("shell")
	delete(snapshot, "/a")

	_, still := doc.Entry("shell", "/a")
	assert.True(t, still, "mutating the snapshot must not touch the document")
	assert.Nil(t, doc.Entries("ghost"))
}
