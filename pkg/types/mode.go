package types

import (
	"fmt"
	"strings"
)

// Mode identifies how a source is materialized at a destination.
type Mode string

// The fixed mode enumeration. Comparison is case-insensitive on input;
// the canonical spellings below are what gets logged and persisted.
const (
	ModeSymlink  Mode = "symlink"
	ModeJunction Mode = "junction"
	ModeHardlink Mode = "hardlink"
	ModeCopy     Mode = "copy"
	ModeCopyOnce Mode = "copyOnce"
	ModeShortcut Mode = "shortcut"
)

// Modes lists every valid mode in a stable order.
func Modes() []Mode {
	return []Mode{ModeSymlink, ModeJunction, ModeHardlink, ModeCopy, ModeCopyOnce, ModeShortcut}
}

// ParseMode resolves a user-supplied mode name to its canonical Mode.
// Matching is case-insensitive. An empty or unrecognized name returns an
// error; callers decide whether that is fatal (it is, during reconciliation).
func ParseMode(name string) (Mode, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("empty mode")
	}
	for _, m := range Modes() {
		if strings.EqualFold(trimmed, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", name)
}

// IsLinkLike reports whether entries of this mode are tracked in persisted
// state and subject to identity verification. copy and copyOnce have no
// reliable identity check and are therefore never tracked.
func (m Mode) IsLinkLike() bool {
	switch m {
	case ModeSymlink, ModeJunction, ModeHardlink, ModeShortcut:
		return true
	}
	return false
}

// String returns the canonical spelling.
func (m Mode) String() string {
	return string(m)
}
