// Package statestore persists the record of every artifact dotmngr believes
// it owns, keyed by group then by canonical destination. The store is the
// sole authority cleanup consults: an artifact is only ever removed when it
// is tracked here and its identity predicate still holds on disk.
package statestore

import (
	"sort"
	"time"

	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

// Document is the persisted state format. Only link-like modes are ever
// written; copy and copyOnce entries are never tracked.
type Document struct {
	UpdatedAt  time.Time              `json:"updatedAt"`
	ConfigPath string                 `json:"configPath"`
	Groups     map[string]*GroupState `json:"groups"`
}

// GroupState tracks one group's entries keyed by canonical destination.
type GroupState struct {
	UpdatedAt time.Time              `json:"updatedAt"`
	Entries   map[string]types.Entry `json:"entries"`
}

// NewDocument returns an empty state document for the given configuration.
func NewDocument(configPath string) *Document {
	return &Document{
		ConfigPath: configPath,
		Groups:     make(map[string]*GroupState),
	}
}

// GroupNames returns every tracked group name in sorted order.
func (d *Document) GroupNames() []string {
	names := make([]string, 0, len(d.Groups))
	for name := range d.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns a snapshot of one group's tracked entries. Mutating the
// returned map does not touch the document, so callers can iterate it while
// dropping entries.
func (d *Document) Entries(group string) map[string]types.Entry {
	state, ok := d.Groups[group]
	if !ok {
		return nil
	}
	snapshot := make(map[string]types.Entry, len(state.Entries))
	for dest, entry := range state.Entries {
		snapshot[dest] = entry
	}
	return snapshot
}

// Entry looks up a single tracked entry.
func (d *Document) Entry(group, destination string) (types.Entry, bool) {
	state, ok := d.Groups[group]
	if !ok {
		return types.Entry{}, false
	}
	entry, ok := state.Entries[destination]
	return entry, ok
}

// SetEntry records or refreshes a tracked entry under its group.
func (d *Document) SetEntry(group string, entry types.Entry, now time.Time) {
	state, ok := d.Groups[group]
	if !ok {
		state = &GroupState{Entries: make(map[string]types.Entry)}
		d.Groups[group] = state
	}
	if state.Entries == nil {
		state.Entries = make(map[string]types.Entry)
	}
	state.Entries[entry.Destination] = entry
	state.UpdatedAt = now
}

// DropEntry forgets a tracked destination. Groups left without entries are
// removed entirely.
func (d *Document) DropEntry(group, destination string, now time.Time) {
	state, ok := d.Groups[group]
	if !ok {
		return
	}
	delete(state.Entries, destination)
	if len(state.Entries) == 0 {
		delete(d.Groups, group)
		return
	}
	state.UpdatedAt = now
}

// DropGroup forgets every tracked entry of a group.
func (d *Document) DropGroup(group string) {
	delete(d.Groups, group)
}
