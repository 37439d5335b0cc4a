package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Entry is a single managed mapping from a canonical source path to a
// canonical destination path. Destination is the identity key within a
// group. Shortcut is populated only for ModeShortcut; every other mode
// carries no extra attributes.
type Entry struct {
	Destination string        `json:"destination"`
	Source      string        `json:"source"`
	Mode        Mode          `json:"mode"`
	Shortcut    *ShortcutSpec `json:"shortcutAttributes,omitempty"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Touched returns a copy of the entry with a fresh timestamp. Tracked
// entries are re-stamped on every successful apply, including verified
// skips.
func (e Entry) Touched(now time.Time) Entry {
	e.UpdatedAt = now
	return e
}

// ShortcutSpec carries the launch attributes a shortcut stores besides its
// target: working directory, arguments, a human description, an icon
// reference, and the window display style.
type ShortcutSpec struct {
	WorkingDir  string `json:"workingDir,omitempty"`
	Arguments   string `json:"arguments,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	WindowStyle int    `json:"windowStyle,omitempty"`
}

// Window display styles. The numeric codes mirror the shell convention the
// symbolic names normalize to; raw codes outside this set are passed
// through untouched.
const (
	WindowNormal    = 1
	WindowMaximized = 3
	WindowMinimized = 7
)

// ParseWindowStyle normalizes a window style given either as a symbolic
// name (normal, maximized, minimized; case-insensitive) or as a raw
// numeric code. An empty value defaults to WindowNormal.
func ParseWindowStyle(value string) (int, error) {
	v := strings.TrimSpace(value)
	switch {
	case v == "":
		return WindowNormal, nil
	case strings.EqualFold(v, "normal"):
		return WindowNormal, nil
	case strings.EqualFold(v, "maximized"):
		return WindowMaximized, nil
	case strings.EqualFold(v, "minimized"):
		return WindowMinimized, nil
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 {
		return n, nil
	}
	return 0, fmt.Errorf("invalid window style %q", value)
}
