package mirror

import (
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/fahim-ahmed05/dotmngr/pkg/errors"
	"github.com/fahim-ahmed05/dotmngr/pkg/logging"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

// native mirrors through a types.FS. Per-file problems are tallied in the
// stats rather than aborting the walk; only a source that cannot be
// statted at all fails the invocation itself.
type native struct {
	fs  types.FS
	log zerolog.Logger
}

// NewNative creates the default Mirrorer.
func NewNative(fsys types.FS) Mirrorer {
	return &native{fs: fsys, log: logging.GetLogger("mirror")}
}

func (n *native) Mirror(source, destination string, opts Options) (Stats, error) {
	info, err := n.fs.Stat(source)
	if err != nil {
		return Stats{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat mirror source %s", source)
	}

	var stats Stats
	if info.IsDir() {
		stats = n.mirrorDir(source, destination, opts)
	} else {
		stats = n.mirrorFile(source, destination, info, opts)
	}

	n.log.Debug().
		Str("source", source).
		Str("destination", destination).
		Int("copied", stats.Copied).
		Int("skipped", stats.Skipped).
		Int("severity", stats.Severity()).
		Msg("mirror finished")
	return stats, nil
}

func (n *native) mirrorFile(source, destination string, srcInfo fs.FileInfo, opts Options) Stats {
	dstInfo, err := n.fs.Lstat(destination)
	switch {
	case err == nil && dstInfo.IsDir():
		return Stats{Mismatches: 1}
	case err == nil && opts.SkipNewerDest && dstInfo.ModTime().After(srcInfo.ModTime()):
		return Stats{Skipped: 1}
	case err == nil && dstInfo.Mode().IsRegular() &&
		dstInfo.Size() == srcInfo.Size() && dstInfo.ModTime().Equal(srcInfo.ModTime()):
		return Stats{Skipped: 1}
	}

	if err := n.fs.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		n.log.Warn().Err(err).Str("destination", destination).Msg("cannot create parent directory")
		return Stats{Failures: 1}
	}
	data, err := n.fs.ReadFile(source)
	if err != nil {
		n.log.Warn().Err(err).Str("source", source).Msg("cannot read source file")
		return Stats{Failures: 1}
	}
	if err := n.fs.WriteFile(destination, data, srcInfo.Mode().Perm()); err != nil {
		n.log.Warn().Err(err).Str("destination", destination).Msg("cannot write destination file")
		return Stats{Failures: 1}
	}
	// Carry the source timestamp over so an unchanged file is recognized
	// and skipped on the next run.
	if err := n.fs.Chtimes(destination, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		n.log.Debug().Err(err).Str("destination", destination).Msg("cannot preserve timestamp")
	}
	return Stats{Copied: 1}
}

func (n *native) mirrorDir(source, destination string, opts Options) Stats {
	if dstInfo, err := n.fs.Lstat(destination); err == nil && !dstInfo.IsDir() {
		return Stats{Mismatches: 1}
	}

	var stats Stats
	if err := n.fs.MkdirAll(destination, 0o755); err != nil {
		n.log.Warn().Err(err).Str("destination", destination).Msg("cannot create destination directory")
		return Stats{Failures: 1}
	}

	srcEntries, err := n.fs.ReadDir(source)
	if err != nil {
		n.log.Warn().Err(err).Str("source", source).Msg("cannot read source directory")
		return Stats{Failures: 1}
	}

	srcNames := make(map[string]bool, len(srcEntries))
	for _, entry := range srcEntries {
		srcNames[entry.Name()] = true
		srcPath := filepath.Join(source, entry.Name())
		dstPath := filepath.Join(destination, entry.Name())

		if entry.IsDir() {
			if opts.Recursive {
				stats.add(n.mirrorDir(srcPath, dstPath, opts))
			}
			continue
		}

		// Stat follows symlinked sources so their content is mirrored.
		subInfo, err := n.fs.Stat(srcPath)
		if err != nil {
			n.log.Warn().Err(err).Str("source", srcPath).Msg("cannot stat source entry")
			stats.Failures++
			continue
		}
		if subInfo.IsDir() {
			if opts.Recursive {
				stats.add(n.mirrorDir(srcPath, dstPath, opts))
			}
			continue
		}
		stats.add(n.mirrorFile(srcPath, dstPath, subInfo, opts))
	}

	// Destination-only entries are counted but never deleted.
	if dstEntries, err := n.fs.ReadDir(destination); err == nil {
		for _, entry := range dstEntries {
			if !srcNames[entry.Name()] {
				stats.Extras++
			}
		}
	}

	return stats
}
