// Package types defines the core types shared across dotmngr: the artifact
// Mode enumeration, the Entry record that describes one managed mapping, the
// shortcut attribute set, and the FS interface the rest of the codebase uses
// to touch the filesystem.
package types
