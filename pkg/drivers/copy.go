package drivers

import (
	"github.com/rs/zerolog"

	"github.com/fahim-ahmed05/dotmngr/pkg/errors"
	"github.com/fahim-ahmed05/dotmngr/pkg/logging"
	"github.com/fahim-ahmed05/dotmngr/pkg/mirror"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

// copyDriver performs a recursive one-way mirror that never clobbers a
// destination newer than its source. Copies are not tracked: there is no
// identity predicate, so Verify never matches and cleanup never touches
// copied destinations.
type copyDriver struct {
	mirror mirror.Mirrorer
	log    zerolog.Logger
}

func newCopyDriver(m mirror.Mirrorer) *copyDriver {
	return &copyDriver{mirror: m, log: logging.GetLogger("drivers.copy")}
}

func (d *copyDriver) Mode() types.Mode {
	return types.ModeCopy
}

func (d *copyDriver) Create(entry types.Entry) error {
	stats, err := d.mirror.Mirror(entry.Source, entry.Destination, mirror.Options{
		Recursive:     true,
		SkipNewerDest: true,
	})
	return classifyMirror(d.log, entry, stats, err)
}

func (d *copyDriver) Verify(types.Entry) (bool, error) {
	return false, nil
}

// classifyMirror applies the fixed severity cutoff shared by the copy
// drivers: failures abort the run, mismatches warn and continue.
func classifyMirror(log zerolog.Logger, entry types.Entry, stats mirror.Stats, err error) error {
	if err != nil {
		return errors.Wrapf(err, errors.ErrCopyFailed, "cannot mirror %s", entry.Source)
	}
	switch stats.Classify() {
	case mirror.ClassFailure:
		return errors.Newf(errors.ErrCopyFailed,
			"mirror of %s reported %d failure(s)", entry.Source, stats.Failures)
	case mirror.ClassWarning:
		log.Warn().
			Str("source", entry.Source).
			Str("destination", entry.Destination).
			Int("mismatches", stats.Mismatches).
			Msg("mirror finished with mismatched entries left in place")
	}
	log.Debug().
		Str("destination", entry.Destination).
		Int("copied", stats.Copied).
		Int("skipped", stats.Skipped).
		Msg("mirror done")
	return nil
}
