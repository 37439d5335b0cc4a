package main

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort = "A declarative filesystem-link manager"
	MsgRootLong = `dotmngr converges a declarative list of links, hard links, shortcuts, and
one-way copies against the current disk state, tracking what it created so
removals stay safe: it never deletes anything it cannot prove it made.`
	MsgApplyShort = "Converge the configured groups against the disk"
	MsgApplyLong = `Apply reconciles each selected group: destinations no longer configured are
cleaned up when their identity check proves dotmngr made them, then every
configured item is created, replaced, or verified in place.

With no arguments every enabled group is processed. Naming groups explicitly
forces them in, even when disabled in the configuration.`
	MsgUnlinkShort = "Tear down tracked artifacts"
	MsgUnlinkLong = `Unlink removes every artifact dotmngr is tracking for the named groups (all
tracked groups when none are named). Each destination is removed only if its
identity check still proves dotmngr made it; anything else is left in place
with a warning. The tracking records are dropped either way.`
	MsgStatusShort = "Show tracked artifacts and whether they exist"
	MsgStatusLong = `Status lists every tracked entry across all groups and reports whether its
destination currently exists on disk. Read-only: nothing is verified deeper
than presence and nothing is changed.`
	MsgDocsShort       = "Show the configuration file reference"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgDryRunNotice  = "DRY RUN - no changes were made"
	MsgNothingToDo   = "Nothing to do."
	MsgNoTrackedData = "No tracked state found for this configuration."
	MsgStateReset    = "Previous state was unreadable; this run started from empty state."

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Preview decisions without touching the filesystem"
	MsgFlagConfig  = "Configuration file (default: discovered via DOTMNGR_CONFIG and XDG dirs)"
)
