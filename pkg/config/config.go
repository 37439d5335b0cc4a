package config

import (
	"sort"

	"github.com/fahim-ahmed05/dotmngr/pkg/errors"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

// Defaults holds the global fallbacks applied when a group or item does not
// specify its own values.
type Defaults struct {
	// Mode is the fallback artifact mode for items that name none.
	Mode string `koanf:"mode"`
	// TrashEnabled displaces removed destinations into a holding directory
	// instead of deleting them. Defaults to true.
	TrashEnabled bool `koanf:"trash_enabled"`
	// TrashDirectory overrides the default holding location.
	TrashDirectory string `koanf:"trash_directory"`
}

// ShortcutOptions carries the launch attributes a shortcut item may set.
type ShortcutOptions struct {
	WorkingDir  string `koanf:"working_dir"`
	Arguments   string `koanf:"arguments"`
	Description string `koanf:"description"`
	Icon        string `koanf:"icon"`
	// WindowStyle accepts normal, maximized, minimized, or a raw numeric
	// code.
	WindowStyle string `koanf:"window_style"`
}

// Item is one desired source-to-destination mapping.
type Item struct {
	Source      string           `koanf:"source"`
	Destination string           `koanf:"destination"`
	Mode        string           `koanf:"mode"`
	Shortcut    *ShortcutOptions `koanf:"shortcut"`
}

// Group is a named, ordered collection of items.
type Group struct {
	// Enabled defaults to true when omitted. Disabled groups are skipped
	// unless named explicitly on the command line.
	Enabled *bool  `koanf:"enabled"`
	Mode    string `koanf:"mode"`
	Items   []Item `koanf:"items"`
}

// IsEnabled reports whether the group participates in an unscoped run.
func (g *Group) IsEnabled() bool {
	return g.Enabled == nil || *g.Enabled
}

// Config is the fully loaded and validated configuration for one run.
type Config struct {
	Defaults Defaults         `koanf:"defaults"`
	Groups   map[string]Group `koanf:"groups"`

	// Path is the canonical location the configuration was loaded from. It
	// keys the persisted state so distinct configurations never share
	// tracking records.
	Path string `koanf:"-"`
}

// GroupNames returns every configured group name in sorted order.
func (c *Config) GroupNames() []string {
	names := make([]string, 0, len(c.Groups))
	for name := range c.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SelectGroups resolves the run scope. With no names every enabled group is
// selected; explicit names select exactly those groups, including disabled
// ones, and an unknown name fails the run before any mutation.
func (c *Config) SelectGroups(names []string) ([]string, error) {
	if len(names) == 0 {
		var selected []string
		for _, name := range c.GroupNames() {
			group := c.Groups[name]
			if group.IsEnabled() {
				selected = append(selected, name)
			}
		}
		return selected, nil
	}

	seen := make(map[string]bool, len(names))
	var selected []string
	for _, name := range names {
		if _, ok := c.Groups[name]; !ok {
			return nil, errors.Newf(errors.ErrGroupNotFound, "group %q is not configured", name)
		}
		if !seen[name] {
			seen[name] = true
			selected = append(selected, name)
		}
	}
	sort.Strings(selected)
	return selected, nil
}

// ResolveMode applies the item over group over defaults precedence and
// parses the winning value. An unresolved or unrecognized mode is fatal.
func (c *Config) ResolveMode(groupName string, item Item) (types.Mode, error) {
	value := item.Mode
	if value == "" {
		value = c.Groups[groupName].Mode
	}
	if value == "" {
		value = c.Defaults.Mode
	}

	mode, err := types.ParseMode(value)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrUnknownMode,
			"cannot resolve mode for %q in group %q", item.Destination, groupName)
	}
	return mode, nil
}
