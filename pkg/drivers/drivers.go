// Package drivers implements one resource driver per artifact mode. A
// driver knows two things: how to create its artifact at a destination, and
// (for link-like modes) how to verify that an existing destination is
// exactly the artifact it would have created. The verification predicate is
// what makes removal safe: the reconciler only ever displaces a destination
// the predicate vouches for.
package drivers

import (
	"io/fs"
	"path/filepath"

	"github.com/fahim-ahmed05/dotmngr/pkg/errors"
	"github.com/fahim-ahmed05/dotmngr/pkg/mirror"
	"github.com/fahim-ahmed05/dotmngr/pkg/shortcut"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

// Driver is the per-mode contract the reconciler dispatches on.
type Driver interface {
	// Mode names the mode this driver serves.
	Mode() types.Mode
	// Create materializes the entry's artifact at its destination,
	// ensuring the parent directory first.
	Create(entry types.Entry) error
	// Verify reports whether the existing destination already is the
	// artifact Create would produce. Modes without an identity predicate
	// always report false.
	Verify(entry types.Entry) (bool, error)
}

// Deps carries the capabilities drivers are built from.
type Deps struct {
	FS       types.FS
	Mirror   mirror.Mirrorer
	Shortcut shortcut.Service
}

// New builds the full driver set keyed by mode.
func New(deps Deps) map[types.Mode]Driver {
	set := []Driver{
		newSymlinkDriver(deps.FS),
		newJunctionDriver(deps.FS),
		newHardlinkDriver(deps.FS),
		newCopyDriver(deps.Mirror),
		newCopyOnceDriver(deps.FS, deps.Mirror),
		newShortcutDriver(deps.FS, deps.Shortcut),
	}
	m := make(map[types.Mode]Driver, len(set))
	for _, d := range set {
		m[d.Mode()] = d
	}
	return m
}

// ensureParent guarantees the destination's parent directory exists.
func ensureParent(fsys types.FS, destination string) error {
	if err := fsys.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrCreateFailed,
			"cannot create parent directory for %s", destination)
	}
	return nil
}

// verifyLinkTarget is the shared symlink/junction predicate: the
// destination must be a symlink whose target, absolutized against the
// link's parent and cleaned, equals the canonical source.
func verifyLinkTarget(fsys types.FS, entry types.Entry) (bool, error) {
	info, err := fsys.Lstat(entry.Destination)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrVerifyFailed, "cannot inspect %s", entry.Destination)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return false, nil
	}

	target, err := fsys.Readlink(entry.Destination)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrVerifyFailed, "cannot read link %s", entry.Destination)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(entry.Destination), target)
	}
	return filepath.Clean(target) == entry.Source, nil
}
