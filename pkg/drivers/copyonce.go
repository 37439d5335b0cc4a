package drivers

import (
	"github.com/rs/zerolog"

	"github.com/fahim-ahmed05/dotmngr/pkg/logging"
	"github.com/fahim-ahmed05/dotmngr/pkg/mirror"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

// copyOnceDriver seeds a destination exactly once. As soon as the
// destination exists, from any origin, it is permanently excluded from
// future writes: the mirror capability is not even invoked.
type copyOnceDriver struct {
	fs     types.FS
	mirror mirror.Mirrorer
	log    zerolog.Logger
}

func newCopyOnceDriver(fsys types.FS, m mirror.Mirrorer) *copyOnceDriver {
	return &copyOnceDriver{fs: fsys, mirror: m, log: logging.GetLogger("drivers.copyonce")}
}

func (d *copyOnceDriver) Mode() types.Mode {
	return types.ModeCopyOnce
}

func (d *copyOnceDriver) Create(entry types.Entry) error {
	if _, err := d.fs.Lstat(entry.Destination); err == nil {
		d.log.Debug().Str("destination", entry.Destination).Msg("destination exists, copyOnce stays away")
		return nil
	}

	stats, err := d.mirror.Mirror(entry.Source, entry.Destination, mirror.Options{Recursive: true})
	return classifyMirror(d.log, entry, stats, err)
}

func (d *copyOnceDriver) Verify(types.Entry) (bool, error) {
	return false, nil
}
