// Package shortcut implements the shortcut capability. Shortcuts are
// materialized as XDG desktop entries of Type=Link; the exact target path
// and launch attributes are carried in X-DotMngr-* keys so identity checks
// read back precisely what was written.
package shortcut

import (
	"bytes"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/ini.v1"

	"github.com/fahim-ahmed05/dotmngr/pkg/errors"
	"github.com/fahim-ahmed05/dotmngr/pkg/logging"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

// Ext is the extension a shortcut destination must carry.
const Ext = ".desktop"

const (
	sectionName    = "Desktop Entry"
	keyTarget      = "X-DotMngr-Target"
	keyWorkingDir  = "X-DotMngr-WorkingDir"
	keyArguments   = "X-DotMngr-Arguments"
	keyWindowStyle = "X-DotMngr-WindowStyle"
)

func init() {
	// Desktop entries use KEY=VALUE without alignment padding.
	ini.PrettyFormat = false
}

// Service is the contract the shortcut driver invokes.
type Service interface {
	// Write produces or overwrites the shortcut at path, pointing at
	// target. spec may be nil.
	Write(path, target string, spec *types.ShortcutSpec) error
	// ReadTarget returns the target stored in an existing shortcut. It
	// fails when the file is absent, unparseable, or stores no target.
	ReadTarget(path string) (string, error)
}

// desktopEntry is the default Service implementation.
type desktopEntry struct {
	fs  types.FS
	log zerolog.Logger
}

// NewDesktopEntry creates the default Service backed by fsys.
func NewDesktopEntry(fsys types.FS) Service {
	return &desktopEntry{fs: fsys, log: logging.GetLogger("shortcut")}
}

func (d *desktopEntry) Write(path, target string, spec *types.ShortcutSpec) error {
	file := ini.Empty()
	sec, err := file.NewSection(sectionName)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot build desktop entry")
	}

	name := strings.TrimSuffix(filepath.Base(path), Ext)
	set := func(key, value string) {
		if value != "" {
			_, _ = sec.NewKey(key, value)
		}
	}
	set("Type", "Link")
	set("Name", name)
	set("URL", "file://"+target)
	set(keyTarget, target)

	if spec != nil {
		set("Comment", spec.Description)
		set("Icon", spec.Icon)
		set(keyWorkingDir, spec.WorkingDir)
		set(keyArguments, spec.Arguments)
		if spec.WindowStyle != 0 {
			set(keyWindowStyle, strconv.Itoa(spec.WindowStyle))
		}
	}

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode desktop entry")
	}
	if err := d.fs.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot write shortcut %s", path)
	}

	d.log.Debug().Str("path", path).Str("target", target).Msg("wrote shortcut")
	return nil
}

func (d *desktopEntry) ReadTarget(path string) (string, error) {
	data, err := d.fs.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read shortcut %s", path)
	}

	file, err := ini.Load(data)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "%s is not a parseable shortcut", path)
	}

	sec := file.Section(sectionName)
	if sec.HasKey(keyTarget) {
		return sec.Key(keyTarget).String(), nil
	}
	// Shortcuts written by other tools still expose a target through URL.
	if sec.HasKey("URL") {
		return strings.TrimPrefix(sec.Key("URL").String(), "file://"), nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "shortcut %s stores no target", path)
}
