// Package trash displaces destinations into a holding location instead of
// deleting them outright. Every displaced object gets a sidecar manifest
// recording where it came from and when, so a user can restore it by hand.
package trash

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/fahim-ahmed05/dotmngr/pkg/errors"
	"github.com/fahim-ahmed05/dotmngr/pkg/logging"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

// Layout under the trash directory.
const (
	filesDirName = "files"
	infoDirName  = "info"
	manifestExt  = ".trashinfo.toml"
)

// Manifest is the sidecar written next to every displaced object.
type Manifest struct {
	OriginalPath string    `toml:"original_path"`
	DisplacedAt  time.Time `toml:"displaced_at"`
}

// Service is the displacement contract the reconciler invokes.
type Service interface {
	// Displace removes path from its location: moved into the holding
	// directory when trash is enabled, deleted permanently otherwise.
	Displace(path string) error
}

type service struct {
	fs      types.FS
	dir     string
	enabled bool
	now     func() time.Time
	log     zerolog.Logger
}

// New creates a Service. dir is the holding directory, used only when
// enabled is true.
func New(fsys types.FS, dir string, enabled bool) Service {
	return &service{
		fs:      fsys,
		dir:     dir,
		enabled: enabled,
		now:     time.Now,
		log:     logging.GetLogger("trash"),
	}
}

func (s *service) Displace(path string) error {
	if !s.enabled {
		if err := s.fs.RemoveAll(path); err != nil {
			return errors.Wrapf(err, errors.ErrRemoveFailed, "cannot remove %s", path)
		}
		s.log.Debug().Str("path", path).Msg("removed permanently")
		return nil
	}

	filesDir := filepath.Join(s.dir, filesDirName)
	infoDir := filepath.Join(s.dir, infoDirName)
	for _, dir := range []string{filesDir, infoDir} {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, errors.ErrTrashFailed, "cannot prepare trash directory %s", dir)
		}
	}

	name, err := s.uniqueName(filesDir, filepath.Base(path))
	if err != nil {
		return err
	}

	holding := filepath.Join(filesDir, name)
	if err := s.fs.Rename(path, holding); err != nil {
		return errors.Wrapf(err, errors.ErrTrashFailed, "cannot move %s into trash", path)
	}

	manifest := Manifest{OriginalPath: path, DisplacedAt: s.now()}
	data, err := toml.Marshal(manifest)
	if err == nil {
		err = s.fs.WriteFile(filepath.Join(infoDir, name+manifestExt), data, 0o644)
	}
	if err != nil {
		// The object is already in holding; a missing manifest only loses
		// the restore hint.
		s.log.Warn().Err(err).Str("path", path).Msg("displaced without manifest")
	}

	s.log.Debug().Str("path", path).Str("holding", holding).Msg("displaced to trash")
	return nil
}

// uniqueName finds an unused holding name, suffixing a counter on
// collision.
func (s *service) uniqueName(filesDir, base string) (string, error) {
	name := base
	for i := 1; ; i++ {
		if _, err := s.fs.Lstat(filepath.Join(filesDir, name)); err != nil {
			return name, nil
		}
		if i > 10000 {
			return "", errors.Newf(errors.ErrTrashFailed, "cannot find a free trash slot for %s", base)
		}
		name = fmt.Sprintf("%s.%d", base, i)
	}
}
