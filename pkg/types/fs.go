package types

import (
	"io/fs"
	"time"
)

// FS is the filesystem interface dotmngr operates through. The production
// implementation delegates to the os package; tests may substitute a
// memory-backed one for logic that does not depend on real link semantics.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Chtimes(name string, atime, mtime time.Time) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Link operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	Link(oldname, newname string) error

	// Removal and movement
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
}
