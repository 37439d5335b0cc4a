// Package status implements the read-only status command: for every
// tracked entry, report whether its destination currently exists. Presence
// only; no identity evaluation, no mutation.
package status

import (
	"sort"
	"time"

	"github.com/fahim-ahmed05/dotmngr/pkg/commands/internal"
	"github.com/fahim-ahmed05/dotmngr/pkg/filesystem"
	"github.com/fahim-ahmed05/dotmngr/pkg/logging"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

// Options defines the options for the Status command.
type Options struct {
	// ConfigPath explicitly names the configuration file. Empty means
	// discovery: env var, XDG config dir, then the working directory.
	ConfigPath string
}

// EntryStatus is one tracked entry's presence snapshot. Present means
// Lstat succeeds: a dangling symlink still counts, the artifact object
// exists even when what it points at does not.
type EntryStatus struct {
	Group       string
	Destination string
	Source      string
	Mode        types.Mode
	Present     bool
	UpdatedAt   time.Time
}

// Result is what the Status command reports back to its caller.
type Result struct {
	ConfigPath string
	StatePath  string
	UpdatedAt  time.Time
	// Entries is sorted by group, then destination.
	Entries []EntryStatus
	// NoData is set when the state file exists but cannot be read. The
	// command still succeeds; there is simply nothing to show.
	NoData bool
}

// Status loads the tracked state and probes each destination for presence.
func Status(opts Options) (*Result, error) {
	log := logging.GetLogger("commands.status")

	fsys := filesystem.NewOS()
	session, err := internal.Open(fsys, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ConfigPath: session.Config.Path,
		StatePath:  session.Store.Path(),
		UpdatedAt:  session.Doc.UpdatedAt,
	}
	if session.StateWarning != nil {
		result.NoData = true
		return result, nil
	}

	for _, group := range session.Doc.GroupNames() {
		entries := session.Doc.Entries(group)
		destinations := make([]string, 0, len(entries))
		for dest := range entries {
			destinations = append(destinations, dest)
		}
		sort.Strings(destinations)

		for _, dest := range destinations {
			entry := entries[dest]
			_, err := fsys.Lstat(dest)
			result.Entries = append(result.Entries, EntryStatus{
				Group:       group,
				Destination: dest,
				Source:      entry.Source,
				Mode:        entry.Mode,
				Present:     err == nil,
				UpdatedAt:   entry.UpdatedAt,
			})
		}
	}

	log.Debug().Int("entries", len(result.Entries)).Msg("status collected")
	return result, nil
}
