// Package config loads, validates, and resolves the dotmngr configuration:
// global defaults plus named groups of managed items. Configuration is read
// once per run into an immutable typed structure; mode resolution precedence
// (item over group over defaults) lives here so the reconciler never sees an
// unresolved mode string.
package config
