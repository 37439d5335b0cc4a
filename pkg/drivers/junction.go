package drivers

import (
	"github.com/rs/zerolog"

	"github.com/fahim-ahmed05/dotmngr/pkg/errors"
	"github.com/fahim-ahmed05/dotmngr/pkg/logging"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

// junctionDriver creates directory-only links. The identity predicate is
// the same as the symlink one; creation additionally insists the source is
// a directory.
type junctionDriver struct {
	fs  types.FS
	log zerolog.Logger
}

func newJunctionDriver(fsys types.FS) *junctionDriver {
	return &junctionDriver{fs: fsys, log: logging.GetLogger("drivers.junction")}
}

func (d *junctionDriver) Mode() types.Mode {
	return types.ModeJunction
}

func (d *junctionDriver) Create(entry types.Entry) error {
	info, err := d.fs.Stat(entry.Source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCreateFailed,
			"cannot inspect junction source %s", entry.Source)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrUnsupportedTargetType,
			"junction source %s is not a directory", entry.Source)
	}

	if err := ensureParent(d.fs, entry.Destination); err != nil {
		return err
	}
	if err := d.fs.Symlink(entry.Source, entry.Destination); err != nil {
		return errors.Wrapf(err, errors.ErrCreateFailed,
			"cannot create junction %s", entry.Destination)
	}
	d.log.Debug().Str("destination", entry.Destination).Str("source", entry.Source).Msg("created junction")
	return nil
}

func (d *junctionDriver) Verify(entry types.Entry) (bool, error) {
	return verifyLinkTarget(d.fs, entry)
}
