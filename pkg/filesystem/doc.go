// Package filesystem provides filesystem implementations for dotmngr.
//
// This package contains implementations of the types.FS interface,
// including the standard OS filesystem and an afero-backed one used
// by tests that do not depend on real link semantics.
package filesystem
