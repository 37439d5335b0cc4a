// Package reconciler implements the convergence core: it diffs each group's
// desired set against the tracked state, removes what is no longer desired
// when the per-mode identity predicate proves ownership, and creates,
// replaces, or verifies what is desired. State is mutated in memory only;
// the caller persists it once after all groups finish.
package reconciler

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/fahim-ahmed05/dotmngr/pkg/config"
	"github.com/fahim-ahmed05/dotmngr/pkg/drivers"
	"github.com/fahim-ahmed05/dotmngr/pkg/errors"
	"github.com/fahim-ahmed05/dotmngr/pkg/logging"
	"github.com/fahim-ahmed05/dotmngr/pkg/paths"
	"github.com/fahim-ahmed05/dotmngr/pkg/statestore"
	"github.com/fahim-ahmed05/dotmngr/pkg/trash"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

// Options wires a Reconciler.
type Options struct {
	FS      types.FS
	Drivers map[types.Mode]drivers.Driver
	Trash   trash.Service
	Config  *config.Config
	// DryRun suppresses every filesystem mutation while still producing
	// the full set of decisions.
	DryRun bool
	// Now is the run clock; nil means time.Now.
	Now func() time.Time
}

// Reconciler executes apply and teardown runs. It is single-threaded and
// synchronous; one instance serves one run at a time.
type Reconciler struct {
	fs      types.FS
	drivers map[types.Mode]drivers.Driver
	trash   trash.Service
	cfg     *config.Config
	dryRun  bool
	now     func() time.Time
	log     zerolog.Logger
}

// New creates a Reconciler.
func New(opts Options) *Reconciler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Reconciler{
		fs:      opts.FS,
		drivers: opts.Drivers,
		trash:   opts.Trash,
		cfg:     opts.Config,
		dryRun:  opts.DryRun,
		now:     now,
		log:     logging.GetLogger("reconciler"),
	}
}

// groupPlan is one group's resolved desired set.
type groupPlan struct {
	name string
	// entries in configuration order, canonicalized, modes resolved.
	entries []types.Entry
	// desired keys the cleanup pass checks membership against.
	desired map[string]bool
	// skipped holds the source-missing warnings produced while planning.
	skipped []Result
}

// Apply converges the named groups: plan, cleanup, apply, in that order,
// group by group. A fatal condition aborts immediately and returns the
// partial report alongside the error; the caller must not persist state in
// that case.
func (r *Reconciler) Apply(doc *statestore.Document, groups []string) (*Report, error) {
	report := &Report{DryRun: r.dryRun}
	stamp := r.now()

	plans, err := r.buildPlans(groups)
	if err != nil {
		return report, err
	}

	for _, plan := range plans {
		r.log.Info().Str("group", plan.name).Int("items", len(plan.entries)).Msg("reconciling group")
		for _, res := range plan.skipped {
			report.add(res)
		}
		r.cleanupGroup(doc, plan.name, plan.desired, stamp, report)
		if err := r.applyGroup(doc, plan, stamp, report); err != nil {
			return report, err
		}
	}
	return report, nil
}

// Teardown treats the desired set of every scoped group as empty and runs
// the cleanup logic over each tracked destination. An empty scope means
// every group present in state. Scoped names with nothing tracked are
// warnings, not errors.
func (r *Reconciler) Teardown(doc *statestore.Document, groups []string) (*Report, error) {
	report := &Report{DryRun: r.dryRun}
	stamp := r.now()

	scope := groups
	if len(scope) == 0 {
		scope = doc.GroupNames()
	}

	for _, name := range scope {
		if _, ok := doc.Groups[name]; !ok {
			report.add(Result{
				Group:   name,
				Outcome: OutcomeSkipped,
				Message: "nothing tracked for this group",
			})
			continue
		}
		r.log.Info().Str("group", name).Msg("tearing down group")
		r.cleanupGroup(doc, name, nil, stamp, report)
		doc.DropGroup(name)
	}
	return report, nil
}

// buildPlans resolves and canonicalizes every selected group before any
// mutation. Duplicate destinations across the selected groups are a
// configuration error; unresolvable modes halt here too.
func (r *Reconciler) buildPlans(groups []string) ([]groupPlan, error) {
	plans := make([]groupPlan, 0, len(groups))
	owner := make(map[string]string)

	for _, name := range groups {
		group, ok := r.cfg.Groups[name]
		if !ok {
			return nil, errors.Newf(errors.ErrGroupNotFound, "group %q is not configured", name)
		}

		plan := groupPlan{name: name, desired: make(map[string]bool)}
		for _, item := range group.Items {
			mode, err := r.cfg.ResolveMode(name, item)
			if err != nil {
				return nil, err
			}

			source, err := paths.Canonicalize(item.Source)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfig,
					"invalid source path %q in group %q", item.Source, name)
			}
			destination, err := paths.Canonicalize(item.Destination)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfig,
					"invalid destination path %q in group %q", item.Destination, name)
			}

			if prev, taken := owner[destination]; taken {
				return nil, errors.Newf(errors.ErrConfig,
					"destination %s is configured in both %q and %q", destination, prev, name)
			}
			owner[destination] = name

			entry := types.Entry{Destination: destination, Source: source, Mode: mode}
			if mode == types.ModeShortcut {
				spec, err := r.buildShortcutSpec(item)
				if err != nil {
					return nil, err
				}
				entry.Shortcut = spec
			}

			if _, err := r.fs.Stat(source); err != nil {
				plan.skipped = append(plan.skipped, Result{
					Group:       name,
					Destination: destination,
					Source:      source,
					Mode:        mode,
					Outcome:     OutcomeSkipped,
					Message:     fmt.Sprintf("source %s does not exist", source),
				})
				continue
			}

			plan.desired[destination] = true
			plan.entries = append(plan.entries, entry)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// buildShortcutSpec normalizes an item's shortcut options.
func (r *Reconciler) buildShortcutSpec(item config.Item) (*types.ShortcutSpec, error) {
	if item.Shortcut == nil {
		return nil, nil
	}

	style, err := types.ParseWindowStyle(item.Shortcut.WindowStyle)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfig,
			"invalid shortcut options for %q", item.Destination)
	}

	spec := &types.ShortcutSpec{
		Arguments:   item.Shortcut.Arguments,
		Description: item.Shortcut.Description,
		Icon:        item.Shortcut.Icon,
		WindowStyle: style,
	}
	if item.Shortcut.WorkingDir != "" {
		dir, err := paths.Canonicalize(item.Shortcut.WorkingDir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfig,
				"invalid shortcut working directory for %q", item.Destination)
		}
		spec.WorkingDir = dir
	}
	return spec, nil
}

// cleanupGroup walks the group's tracked destinations in sorted order and
// handles every one absent from the desired set. The record is dropped in
// every branch: state always forgets what it no longer desires, whether or
// not the physical artifact could be removed.
func (r *Reconciler) cleanupGroup(doc *statestore.Document, group string, desired map[string]bool, stamp time.Time, report *Report) {
	tracked := doc.Entries(group)
	destinations := make([]string, 0, len(tracked))
	for dest := range tracked {
		destinations = append(destinations, dest)
	}
	sort.Strings(destinations)

	for _, dest := range destinations {
		entry := tracked[dest]
		res := Result{
			Group:       group,
			Destination: dest,
			Source:      entry.Source,
			Mode:        entry.Mode,
		}

		// Records with untrackable modes only appear when the state file
		// was edited by hand. The artifact is not provably ours; forget
		// the record and leave the artifact alone.
		if !entry.Mode.IsLinkLike() {
			res.Outcome = OutcomeKept
			res.Message = fmt.Sprintf("tracked with untrackable mode %q; leaving destination alone", entry.Mode)
			doc.DropEntry(group, dest, stamp)
			report.add(res)
			continue
		}

		if desired[dest] {
			continue
		}

		if _, err := r.fs.Lstat(dest); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				res.Outcome = OutcomePruned
				res.Message = "destination already gone"
			} else {
				res.Outcome = OutcomeKept
				res.Message = "destination unreadable; leaving it alone"
				res.Err = err
			}
			doc.DropEntry(group, dest, stamp)
			report.add(res)
			continue
		}

		matched, err := r.drivers[entry.Mode].Verify(entry)
		switch {
		case err != nil:
			res.Outcome = OutcomeKept
			res.Message = "identity check failed; leaving destination alone"
			res.Err = err
		case !matched:
			res.Outcome = OutcomeKept
			res.Message = "destination is not the artifact that was created; leaving it alone"
		default:
			if err := r.displace(dest); err != nil {
				res.Outcome = OutcomeFailed
				res.Message = "could not displace destination"
				res.Err = err
			} else {
				res.Outcome = OutcomeRemoved
			}
		}
		doc.DropEntry(group, dest, stamp)
		report.add(res)
	}
}

// applyGroup executes the apply pass over the plan's entries in
// configuration order. Item-scoped problems are recorded and skipped;
// fatal ones abort with an error.
func (r *Reconciler) applyGroup(doc *statestore.Document, plan groupPlan, stamp time.Time, report *Report) error {
	for _, entry := range plan.entries {
		var err error
		switch entry.Mode {
		case types.ModeCopy:
			err = r.applyCopy(plan.name, entry, report)
		case types.ModeCopyOnce:
			err = r.applyCopyOnce(plan.name, entry, report)
		default:
			err = r.applyLink(doc, plan.name, entry, stamp, report)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// applyCopy runs the non-clobber mirror. A destination that currently is a
// symlink is displaced first so the sync writes through a real path.
func (r *Reconciler) applyCopy(group string, entry types.Entry, report *Report) error {
	res := r.result(group, entry)

	if isSymlink(r.fs, entry.Destination) {
		if err := r.displace(entry.Destination); err != nil {
			res.Outcome = OutcomeFailed
			res.Message = "could not displace link at destination"
			res.Err = err
			report.add(res)
			return nil
		}
	}
	return r.runDriver(entry, report, res, OutcomeSynced)
}

// applyCopyOnce seeds the destination only when it is entirely absent. An
// existing destination is permanently left alone.
func (r *Reconciler) applyCopyOnce(group string, entry types.Entry, report *Report) error {
	res := r.result(group, entry)

	if _, err := r.fs.Lstat(entry.Destination); err == nil {
		res.Outcome = OutcomeSkipped
		res.Message = "destination already exists; copyOnce leaves it alone"
		report.add(res)
		return nil
	}
	return r.runDriver(entry, report, res, OutcomeSynced)
}

// applyLink converges one link-like entry: create when absent, keep when
// the predicate matches, displace and recreate otherwise. Every successful
// path re-stamps the tracked record.
func (r *Reconciler) applyLink(doc *statestore.Document, group string, entry types.Entry, stamp time.Time, report *Report) error {
	res := r.result(group, entry)

	if _, err := r.fs.Lstat(entry.Destination); err != nil {
		if err := r.createLink(doc, group, entry, stamp, report, res, OutcomeCreated); err != nil {
			return err
		}
		return nil
	}

	matched, err := r.drivers[entry.Mode].Verify(entry)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Message = "identity check failed"
		res.Err = err
		report.add(res)
		return nil
	}

	if matched {
		doc.SetEntry(group, entry.Touched(stamp), stamp)
		res.Outcome = OutcomeUnchanged
		report.add(res)
		return nil
	}

	if err := r.displace(entry.Destination); err != nil {
		res.Outcome = OutcomeFailed
		res.Message = "could not displace mismatched destination"
		res.Err = err
		report.add(res)
		return nil
	}
	return r.createLink(doc, group, entry, stamp, report, res, OutcomeReplaced)
}

// createLink materializes a link-like entry and tracks it. Fatal driver
// errors propagate; item-scoped ones are recorded.
func (r *Reconciler) createLink(doc *statestore.Document, group string, entry types.Entry, stamp time.Time, report *Report, res Result, outcome Outcome) error {
	if !r.dryRun {
		if err := r.drivers[entry.Mode].Create(entry); err != nil {
			res.Outcome = OutcomeFailed
			res.Err = err
			report.add(res)
			if errors.IsFatal(err) {
				return err
			}
			return nil
		}
	}
	doc.SetEntry(group, entry.Touched(stamp), stamp)
	res.Outcome = outcome
	report.add(res)
	return nil
}

// runDriver executes a copy-family create, which is never tracked.
func (r *Reconciler) runDriver(entry types.Entry, report *Report, res Result, outcome Outcome) error {
	if !r.dryRun {
		if err := r.drivers[entry.Mode].Create(entry); err != nil {
			res.Outcome = OutcomeFailed
			res.Err = err
			report.add(res)
			if errors.IsFatal(err) {
				return err
			}
			return nil
		}
	}
	res.Outcome = outcome
	report.add(res)
	return nil
}

func (r *Reconciler) result(group string, entry types.Entry) Result {
	return Result{
		Group:       group,
		Destination: entry.Destination,
		Source:      entry.Source,
		Mode:        entry.Mode,
	}
}

// displace moves a destination out of the way, honoring dry-run.
func (r *Reconciler) displace(path string) error {
	if r.dryRun {
		return nil
	}
	return r.trash.Displace(path)
}

// isSymlink reports whether path currently is a symlink.
func isSymlink(fsys types.FS, path string) bool {
	info, err := fsys.Lstat(path)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}
