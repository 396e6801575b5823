// Package fs provides the real-filesystem implementation of the
// organizer's FilesystemManager interface.
package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"tidy-go/internal/organizer"
)

// OSFilesystemManager is the real filesystem implementation of
// FilesystemManager. It performs actual filesystem operations using the
// os package and applies the configured ignore rules during scans.
type OSFilesystemManager struct {
	ignore *IgnoreMatcher
}

// NewOSFilesystemManager creates a filesystem manager that operates on
// the real filesystem. A nil matcher means nothing is ignored.
func NewOSFilesystemManager(ignore *IgnoreMatcher) *OSFilesystemManager {
	if ignore == nil {
		ignore = NewIgnoreMatcher(nil, nil)
	}
	return &OSFilesystemManager{ignore: ignore}
}

// Resolve validates a raw path and returns a Path object.
func (m *OSFilesystemManager) Resolve(rawPath string) (*organizer.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	// Check for special file types we don't support
	mode := info.Mode()
	if mode&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("symlinks not supported: %s", absPath)
	}
	if mode&os.ModeDevice != 0 {
		return nil, fmt.Errorf("device files not supported: %s", absPath)
	}
	if mode&os.ModeNamedPipe != 0 {
		return nil, fmt.Errorf("named pipes not supported: %s", absPath)
	}
	if mode&os.ModeSocket != 0 {
		return nil, fmt.Errorf("sockets not supported: %s", absPath)
	}

	return organizer.NewPath(absPath, info.IsDir(), info), nil
}

// FindFiles discovers regular files under the given directory path,
// skipping ignored folders and extensions.
func (m *OSFilesystemManager) FindFiles(dir *organizer.Path, recursive bool) ([]*organizer.Path, error) {
	if !dir.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir.String())
	}

	var paths []*organizer.Path

	if recursive {
		err := filepath.WalkDir(dir.String(), func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != dir.String() && m.ignore.MatchFolder(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if m.ignore.MatchFile(d.Name()) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return fmt.Errorf("stat %s: %w", p, err)
			}
			paths = append(paths, organizer.NewPath(p, false, info))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking directory: %w", err)
		}
	} else {
		entries, err := os.ReadDir(dir.String())
		if err != nil {
			return nil, fmt.Errorf("reading directory: %w", err)
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			if m.ignore.MatchFile(entry.Name()) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
			}
			fullPath := filepath.Join(dir.String(), entry.Name())
			paths = append(paths, organizer.NewPath(fullPath, false, info))
		}
	}

	return paths, nil
}

// CreationTime returns the file's creation time: true birth time where
// the platform exposes one, modification time otherwise.
func (m *OSFilesystemManager) CreationTime(path *organizer.Path) (time.Time, error) {
	return birthTime(path.Info())
}

// Compile-time check that OSFilesystemManager implements organizer.FilesystemManager
var _ organizer.FilesystemManager = (*OSFilesystemManager)(nil)
