package drivers

import (
	stderrors "errors"
	"os"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/fahim-ahmed05/dotmngr/pkg/errors"
	"github.com/fahim-ahmed05/dotmngr/pkg/logging"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

// hardlinkDriver adds a new directory entry for the source's file data.
// Regular files only, and source and destination must share a volume.
type hardlinkDriver struct {
	fs  types.FS
	log zerolog.Logger
}

func newHardlinkDriver(fsys types.FS) *hardlinkDriver {
	return &hardlinkDriver{fs: fsys, log: logging.GetLogger("drivers.hardlink")}
}

func (d *hardlinkDriver) Mode() types.Mode {
	return types.ModeHardlink
}

func (d *hardlinkDriver) Create(entry types.Entry) error {
	info, err := d.fs.Stat(entry.Source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCreateFailed,
			"cannot inspect hardlink source %s", entry.Source)
	}
	if info.IsDir() {
		return errors.Newf(errors.ErrUnsupportedTargetType,
			"cannot hardlink directory %s", entry.Source)
	}

	if err := ensureParent(d.fs, entry.Destination); err != nil {
		return err
	}
	if err := d.fs.Link(entry.Source, entry.Destination); err != nil {
		if stderrors.Is(err, syscall.EXDEV) {
			return errors.Wrapf(err, errors.ErrCrossVolume,
				"%s and %s are on different volumes", entry.Source, entry.Destination)
		}
		return errors.Wrapf(err, errors.ErrCreateFailed,
			"cannot create hardlink %s", entry.Destination)
	}
	d.log.Debug().Str("destination", entry.Destination).Str("source", entry.Source).Msg("created hardlink")
	return nil
}

// Verify holds when the destination is not a symlink and shares the
// source's underlying file identity. A missing source fails the predicate:
// ownership cannot be proven against nothing.
func (d *hardlinkDriver) Verify(entry types.Entry) (bool, error) {
	dstInfo, err := d.fs.Lstat(entry.Destination)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrVerifyFailed, "cannot inspect %s", entry.Destination)
	}
	if dstInfo.Mode()&os.ModeSymlink != 0 {
		return false, nil
	}

	srcInfo, err := d.fs.Stat(entry.Source)
	if err != nil {
		return false, nil
	}
	return os.SameFile(srcInfo, dstInfo), nil
}
