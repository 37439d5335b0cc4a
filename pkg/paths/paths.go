// Package paths provides centralized path handling for dotmngr: expansion
// of user and environment tokens, canonicalization to a comparison-stable
// absolute form, and the XDG-based locations of the state file, the default
// trash directory, and the configuration file.
package paths

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/fahim-ahmed05/dotmngr/pkg/errors"
)

// Environment variable names
const (
	// EnvConfig points at the configuration file, overriding discovery
	EnvConfig = "DOTMNGR_CONFIG"

	// EnvDataDir overrides the XDG data directory for dotmngr
	EnvDataDir = "DOTMNGR_DATA_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Directory and file names under the data dir. These define dotmngr's
// internal layout and are not user-configurable.
const (
	appDirName   = "dotmngr"
	stateDirName = "state"
	trashDirName = "trash"
)

// configFileNames are the discovery candidates, in preference order.
var configFileNames = []string{
	"dotmngr.toml",
	"dotmngr.yaml",
	"dotmngr.yml",
	"dotmngr.json",
}

// Paths resolves dotmngr's well-known locations for one run.
type Paths struct {
	dataDir   string
	configDir string
}

// New creates a Paths instance honoring DOTMNGR_DATA_DIR over the XDG
// defaults.
func New() *Paths {
	p := &Paths{
		dataDir:   filepath.Join(xdg.DataHome, appDirName),
		configDir: filepath.Join(xdg.ConfigHome, appDirName),
	}
	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		p.dataDir = ExpandHome(dataDir)
	}
	return p
}

// DataDir returns the data directory for dotmngr.
func (p *Paths) DataDir() string {
	return p.dataDir
}

// ConfigDir returns the configuration directory for dotmngr.
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// StateFile returns the persisted-state location for a given configuration.
// The location is deterministic from the configuration's identity: the
// canonical config path is hashed so distinct configurations never share
// tracking records.
func (p *Paths) StateFile(configPath string) string {
	sum := sha256.Sum256([]byte(configPath))
	base := strings.TrimSuffix(filepath.Base(configPath), filepath.Ext(configPath))
	name := base + "-" + hex.EncodeToString(sum[:])[:12] + ".json"
	return filepath.Join(p.dataDir, stateDirName, name)
}

// DefaultTrashDir returns the holding location used when the configuration
// enables trash without naming a directory.
func (p *Paths) DefaultTrashDir() string {
	return filepath.Join(p.dataDir, trashDirName)
}

// FindConfig locates the configuration file. Priority: the explicit path
// (usually from --config), the DOTMNGR_CONFIG environment variable, the
// well-known names in the dotmngr config directory, then the current
// working directory.
func (p *Paths) FindConfig(explicit string) (string, error) {
	if explicit != "" {
		return Canonicalize(explicit)
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return Canonicalize(env)
	}
	for _, dir := range []string{p.configDir, "."} {
		for _, name := range configFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return Canonicalize(candidate)
			}
		}
	}
	return "", errors.Newf(errors.ErrConfig,
		"no configuration file found; looked for %s under %s and the current directory",
		strings.Join(configFileNames, ", "), p.configDir)
}

// ExpandHome expands a leading ~ to the home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	// ~something refers to another user's home; leave untouched
	return path
}

// Expand substitutes a leading ~ and $VAR / ${VAR} environment tokens.
// Unset variables expand to the empty string, matching os.ExpandEnv.
func Expand(path string) string {
	return os.ExpandEnv(ExpandHome(path))
}

// Canonicalize resolves an expanded path to the comparison-stable form used
// everywhere identities are compared: token expansion, then absolute, then
// cleaned. Parent symlinks are deliberately not resolved and no case folding
// is applied, so the canonical form matches exactly what gets written into
// link targets.
func Canonicalize(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	expanded := Expand(path)
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %q", path)
	}
	return filepath.Clean(abs), nil
}
