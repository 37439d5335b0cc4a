// Package apply implements the apply command: converge every selected
// group against the configuration, then persist the updated state.
package apply

import (
	"github.com/fahim-ahmed05/dotmngr/pkg/commands/internal"
	"github.com/fahim-ahmed05/dotmngr/pkg/filesystem"
	"github.com/fahim-ahmed05/dotmngr/pkg/logging"
	"github.com/fahim-ahmed05/dotmngr/pkg/reconciler"
)

// Options defines the options for the Apply command.
type Options struct {
	// ConfigPath explicitly names the configuration file. Empty means
	// discovery: env var, XDG config dir, then the working directory.
	ConfigPath string
	// Groups scopes the run. Empty selects every enabled group; explicit
	// names force disabled groups in and unknown names are fatal.
	Groups []string
	// DryRun produces the full set of decisions without touching the
	// filesystem or persisting state.
	DryRun bool
}

// Result is what the Apply command reports back to its caller.
type Result struct {
	ConfigPath string
	// Groups is the resolved selection in processing order.
	Groups []string
	Report *reconciler.Report
	// StateReset notes that the previous state file was unreadable and
	// the run started from empty state.
	StateReset bool
}

// Apply runs the reconciliation over the selected groups. A fatal condition
// returns the partial report alongside the error and skips the persist; the
// next run's cleanup pass recovers whatever this one left behind.
func Apply(opts Options) (*Result, error) {
	log := logging.GetLogger("commands.apply")

	session, err := internal.Open(filesystem.NewOS(), opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	groups, err := session.Config.SelectGroups(opts.Groups)
	if err != nil {
		return nil, err
	}

	rec, err := session.Reconciler(opts.DryRun)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ConfigPath: session.Config.Path,
		Groups:     groups,
		StateReset: session.StateWarning != nil,
	}

	log.Info().Str("config", session.Config.Path).Strs("groups", groups).
		Bool("dryRun", opts.DryRun).Msg("applying configuration")

	report, err := rec.Apply(session.Doc, groups)
	result.Report = report
	if err != nil {
		log.Error().Err(err).Msg("apply aborted")
		return result, err
	}

	if !opts.DryRun {
		if err := session.Persist(); err != nil {
			return result, err
		}
	}

	log.Info().Int("results", len(report.Results)).Msg("apply finished")
	return result, nil
}
