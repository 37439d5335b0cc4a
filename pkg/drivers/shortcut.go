package drivers

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/fahim-ahmed05/dotmngr/pkg/errors"
	"github.com/fahim-ahmed05/dotmngr/pkg/logging"
	"github.com/fahim-ahmed05/dotmngr/pkg/shortcut"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

// shortcutDriver materializes shortcut documents through the shortcut
// capability. The destination must carry the shortcut extension.
type shortcutDriver struct {
	fs  types.FS
	svc shortcut.Service
	log zerolog.Logger
}

func newShortcutDriver(fsys types.FS, svc shortcut.Service) *shortcutDriver {
	return &shortcutDriver{fs: fsys, svc: svc, log: logging.GetLogger("drivers.shortcut")}
}

func (d *shortcutDriver) Mode() types.Mode {
	return types.ModeShortcut
}

func (d *shortcutDriver) Create(entry types.Entry) error {
	if !strings.HasSuffix(entry.Destination, shortcut.Ext) {
		return errors.Newf(errors.ErrUnsupportedTargetType,
			"shortcut destination %s must end with %s", entry.Destination, shortcut.Ext)
	}

	if err := ensureParent(d.fs, entry.Destination); err != nil {
		return err
	}
	if err := d.svc.Write(entry.Destination, entry.Source, entry.Shortcut); err != nil {
		return errors.Wrapf(err, errors.ErrCreateFailed,
			"cannot create shortcut %s", entry.Destination)
	}
	d.log.Debug().Str("destination", entry.Destination).Str("source", entry.Source).Msg("created shortcut")
	return nil
}

// Verify holds when the destination parses as a shortcut whose stored
// target equals the canonical source. An unparseable or target-less
// document simply fails the predicate.
func (d *shortcutDriver) Verify(entry types.Entry) (bool, error) {
	target, err := d.svc.ReadTarget(entry.Destination)
	if err != nil {
		if errors.IsCode(err, errors.ErrInvalidInput) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrVerifyFailed, "cannot inspect %s", entry.Destination)
	}
	return target == entry.Source, nil
}
