package reconciler

import "github.com/fahim-ahmed05/dotmngr/pkg/types"

// Outcome is the per-item decision the run made.
type Outcome string

const (
	// OutcomeCreated marks a freshly materialized artifact.
	OutcomeCreated Outcome = "created"
	// OutcomeReplaced marks a mismatched destination that was displaced and
	// recreated.
	OutcomeReplaced Outcome = "replaced"
	// OutcomeUnchanged marks a verified destination left as-is, timestamp
	// refreshed.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeSynced marks a copy-family mirror invocation.
	OutcomeSynced Outcome = "synced"
	// OutcomeSkipped marks an item excluded from the run: missing source,
	// copyOnce destination already present, or nothing tracked to tear
	// down.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeRemoved marks a tracked destination cleanup displaced.
	OutcomeRemoved Outcome = "removed"
	// OutcomeKept marks a tracked destination cleanup left alone because
	// the identity predicate no longer vouches for it. Its record is
	// dropped regardless.
	OutcomeKept Outcome = "kept"
	// OutcomePruned marks a tracked destination that was already gone.
	OutcomePruned Outcome = "pruned"
	// OutcomeFailed marks an item-scoped error; the run continued.
	OutcomeFailed Outcome = "failed"
)

// Result records one decision.
type Result struct {
	Group       string
	Destination string
	Source      string
	Mode        types.Mode
	Outcome     Outcome
	Message     string
	Err         error
}

// Report aggregates every decision of one run.
type Report struct {
	Results []Result
	DryRun  bool
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
}

// Count returns how many results carry the given outcome.
func (r *Report) Count(outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Counts returns every outcome tally at once.
func (r *Report) Counts() map[Outcome]int {
	counts := make(map[Outcome]int)
	for _, res := range r.Results {
		counts[res.Outcome]++
	}
	return counts
}

// HasWarnings reports whether any item was skipped, kept, or failed.
func (r *Report) HasWarnings() bool {
	for _, res := range r.Results {
		switch res.Outcome {
		case OutcomeSkipped, OutcomeKept, OutcomeFailed:
			return true
		}
	}
	return false
}
