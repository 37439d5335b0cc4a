// Package internal carries the plumbing every command shares: locate and
// load the configuration, open the state store beside it, and wire a
// reconciler with the full capability set.
package internal

import (
	"time"

	"github.com/fahim-ahmed05/dotmngr/pkg/config"
	"github.com/fahim-ahmed05/dotmngr/pkg/drivers"
	"github.com/fahim-ahmed05/dotmngr/pkg/errors"
	"github.com/fahim-ahmed05/dotmngr/pkg/logging"
	"github.com/fahim-ahmed05/dotmngr/pkg/mirror"
	"github.com/fahim-ahmed05/dotmngr/pkg/paths"
	"github.com/fahim-ahmed05/dotmngr/pkg/reconciler"
	"github.com/fahim-ahmed05/dotmngr/pkg/shortcut"
	"github.com/fahim-ahmed05/dotmngr/pkg/statestore"
	"github.com/fahim-ahmed05/dotmngr/pkg/trash"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

// Session is one command invocation's loaded context: configuration, state
// document, and the store that persists it.
type Session struct {
	FS     types.FS
	Paths  *paths.Paths
	Config *config.Config
	Store  *statestore.Store
	Doc    *statestore.Document

	// StateWarning is non-nil when a state file existed but could not be
	// read. The session continues against empty state; cleanup on the
	// next run self-heals whatever the lost records tracked.
	StateWarning error
}

// Open locates the configuration (explicit path, env var, XDG config dir,
// working directory), loads it, and loads the matching state document.
func Open(fsys types.FS, configPath string) (*Session, error) {
	log := logging.GetLogger("commands.session")

	p := paths.New()
	resolved, err := p.FindConfig(configPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(fsys, resolved)
	if err != nil {
		return nil, err
	}

	store := statestore.New(fsys, p.StateFile(resolved))
	doc, err := store.Load(resolved)
	var stateWarning error
	if err != nil {
		stateWarning = err
		log.Warn().Err(err).Str("path", store.Path()).
			Msg("state file unreadable; continuing with empty state")
	}

	log.Debug().Str("config", resolved).Str("state", store.Path()).Msg("session opened")
	return &Session{
		FS:           fsys,
		Paths:        p,
		Config:       cfg,
		Store:        store,
		Doc:          doc,
		StateWarning: stateWarning,
	}, nil
}

// Reconciler wires the full driver set, the trash service, and the loaded
// configuration into a run-ready reconciler.
func (s *Session) Reconciler(dryRun bool) (*reconciler.Reconciler, error) {
	trashDir := s.Config.Defaults.TrashDirectory
	if trashDir == "" {
		trashDir = s.Paths.DefaultTrashDir()
	} else {
		dir, err := paths.Canonicalize(trashDir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfig,
				"invalid trash directory %q", trashDir)
		}
		trashDir = dir
	}

	drv := drivers.New(drivers.Deps{
		FS:       s.FS,
		Mirror:   mirror.NewNative(s.FS),
		Shortcut: shortcut.NewDesktopEntry(s.FS),
	})
	return reconciler.New(reconciler.Options{
		FS:      s.FS,
		Drivers: drv,
		Trash:   trash.New(s.FS, trashDir, s.Config.Defaults.TrashEnabled),
		Config:  s.Config,
		DryRun:  dryRun,
	}), nil
}

// Persist writes the state document. Called exactly once per mutating run,
// after every group has finished.
func (s *Session) Persist() error {
	return s.Store.Save(s.Doc, time.Now())
}
