// Package unlink implements the unlink command: tear down every tracked
// artifact of the scoped groups, whether or not they are still configured.
package unlink

import (
	"github.com/fahim-ahmed05/dotmngr/pkg/commands/internal"
	"github.com/fahim-ahmed05/dotmngr/pkg/filesystem"
	"github.com/fahim-ahmed05/dotmngr/pkg/logging"
	"github.com/fahim-ahmed05/dotmngr/pkg/reconciler"
)

// Options defines the options for the Unlink command.
type Options struct {
	// ConfigPath explicitly names the configuration file. Empty means
	// discovery: env var, XDG config dir, then the working directory.
	ConfigPath string
	// Groups scopes the teardown. Empty means every group present in
	// state. Names are matched against state, not the configuration, so
	// groups deleted from the config can still be torn down.
	Groups []string
	// DryRun produces the decisions without displacing anything or
	// persisting state.
	DryRun bool
}

// Result is what the Unlink command reports back to its caller.
type Result struct {
	ConfigPath string
	Report     *reconciler.Report
	// StateReset notes that the previous state file was unreadable and
	// the teardown ran against empty state.
	StateReset bool
}

// Unlink removes every tracked artifact in scope that still passes its
// identity check, then forgets the scoped groups and persists.
func Unlink(opts Options) (*Result, error) {
	log := logging.GetLogger("commands.unlink")

	session, err := internal.Open(filesystem.NewOS(), opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	rec, err := session.Reconciler(opts.DryRun)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ConfigPath: session.Config.Path,
		StateReset: session.StateWarning != nil,
	}

	log.Info().Str("config", session.Config.Path).Strs("groups", opts.Groups).
		Bool("dryRun", opts.DryRun).Msg("unlinking groups")

	report, err := rec.Teardown(session.Doc, opts.Groups)
	result.Report = report
	if err != nil {
		log.Error().Err(err).Msg("unlink aborted")
		return result, err
	}

	if !opts.DryRun {
		if err := session.Persist(); err != nil {
			return result, err
		}
	}

	log.Info().Int("results", len(report.Results)).Msg("unlink finished")
	return result, nil
}
