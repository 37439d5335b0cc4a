package drivers

import (
	"github.com/rs/zerolog"

	"github.com/fahim-ahmed05/dotmngr/pkg/errors"
	"github.com/fahim-ahmed05/dotmngr/pkg/logging"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

// symlinkDriver creates symbolic links. Works for file and directory
// sources alike.
type symlinkDriver struct {
	fs  types.FS
	log zerolog.Logger
}

func newSymlinkDriver(fsys types.FS) *symlinkDriver {
	return &symlinkDriver{fs: fsys, log: logging.GetLogger("drivers.symlink")}
}

func (d *symlinkDriver) Mode() types.Mode {
	return types.ModeSymlink
}

func (d *symlinkDriver) Create(entry types.Entry) error {
	if err := ensureParent(d.fs, entry.Destination); err != nil {
		return err
	}
	if err := d.fs.Symlink(entry.Source, entry.Destination); err != nil {
		return errors.Wrapf(err, errors.ErrCreateFailed,
			"cannot create symlink %s", entry.Destination)
	}
	d.log.Debug().Str("destination", entry.Destination).Str("source", entry.Source).Msg("created symlink")
	return nil
}

func (d *symlinkDriver) Verify(entry types.Entry) (bool, error) {
	return verifyLinkTarget(d.fs, entry)
}
