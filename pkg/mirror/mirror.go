// Package mirror implements the bulk-copy capability: a one-way,
// optionally recursive mirror from source to destination. Results are
// summarized in robocopy-style severity classes so callers apply one fixed
// cutoff to decide success, warning, or failure.
package mirror

// Options control one mirror invocation.
type Options struct {
	// Recursive descends into subdirectories. Off mirrors only the top
	// level of a directory source.
	Recursive bool
	// SkipNewerDest leaves destination files whose modification time is
	// strictly newer than the source's untouched.
	SkipNewerDest bool
}

// Stats aggregates what one mirror invocation did and found.
type Stats struct {
	// Copied counts files written.
	Copied int
	// Skipped counts destination files left alone: already up to date, or
	// newer than the source under SkipNewerDest.
	Skipped int
	// Extras counts destination-only entries. Extras are never deleted.
	Extras int
	// Mismatches counts name collisions where one side is a file and the
	// other a directory. Mismatched destinations are left untouched.
	Mismatches int
	// Failures counts files that could not be read or written.
	Failures int
}

// Severity bit values, one per stats class.
const (
	SeverityCopied     = 1
	SeverityExtras     = 2
	SeverityMismatches = 4
	SeverityFailures   = 8
)

// Severity encodes the stats as a bitmask: 1 files copied, 2 extras
// present, 4 mismatches, 8 failures.
func (s Stats) Severity() int {
	sev := 0
	if s.Copied > 0 {
		sev |= SeverityCopied
	}
	if s.Extras > 0 {
		sev |= SeverityExtras
	}
	if s.Mismatches > 0 {
		sev |= SeverityMismatches
	}
	if s.Failures > 0 {
		sev |= SeverityFailures
	}
	return sev
}

// Class is the fixed three-way classification of a mirror outcome.
type Class int

const (
	ClassSuccess Class = iota
	ClassWarning
	ClassFailure
)

func (c Class) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassWarning:
		return "warning"
	case ClassFailure:
		return "failure"
	}
	return "unknown"
}

// Classify applies the fixed severity cutoff: 8 and above is a failure,
// 4 through 7 a warning, anything below a success.
func (s Stats) Classify() Class {
	switch sev := s.Severity(); {
	case sev >= SeverityFailures:
		return ClassFailure
	case sev >= SeverityMismatches:
		return ClassWarning
	}
	return ClassSuccess
}

func (s *Stats) add(other Stats) {
	s.Copied += other.Copied
	s.Skipped += other.Skipped
	s.Extras += other.Extras
	s.Mismatches += other.Mismatches
	s.Failures += other.Failures
}

// Mirrorer is the contract the copy drivers invoke.
type Mirrorer interface {
	Mirror(source, destination string, opts Options) (Stats, error)
}
