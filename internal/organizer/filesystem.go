package organizer

import (
	"io/fs"
	"path/filepath"
	"time"
)

// Path is a validated filesystem path with cached metadata from the time
// it was resolved or discovered during a scan.
type Path struct {
	absPath string
	isDir   bool
	info    fs.FileInfo
}

// NewPath creates a Path from its components.
// This is primarily for use by FilesystemManager implementations.
func NewPath(absPath string, isDir bool, info fs.FileInfo) *Path {
	return &Path{absPath: absPath, isDir: isDir, info: info}
}

// String returns the absolute path as a string.
func (p *Path) String() string { return p.absPath }

// IsDir returns true if this path points to a directory.
func (p *Path) IsDir() bool { return p.isDir }

// Info returns the cached file info from when the path was resolved.
func (p *Path) Info() fs.FileInfo { return p.info }

// Base returns the file's base name.
func (p *Path) Base() string { return filepath.Base(p.absPath) }

// Ext returns the file's extension, including the leading dot.
func (p *Path) Ext() string { return filepath.Ext(p.absPath) }

// FilesystemManager abstracts the read side of filesystem access:
// resolving paths, discovering files, and reading creation metadata.
// Mutations (move, mkdir, remove) stay in the engine, which operates on
// real paths only.
type FilesystemManager interface {
	// Resolve validates a raw path and returns a Path object. It resolves
	// the path to an absolute path, stats it, and rejects special files
	// (symlinks, devices, pipes, sockets).
	Resolve(rawPath string) (*Path, error)

	// FindFiles discovers regular files under a directory in scan order.
	// When recursive is true, files in subdirectories are included.
	// Files matching the manager's ignore rules are excluded.
	FindFiles(dir *Path, recursive bool) ([]*Path, error)

	// CreationTime returns the file's creation time: true birth time where
	// the platform exposes one, modification time otherwise.
	CreationTime(path *Path) (time.Time, error)
}
