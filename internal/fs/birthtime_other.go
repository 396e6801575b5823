//go:build !darwin

package fs

import (
	"io/fs"
	"time"
)

// birthTime falls back to the modification time. Most Unix filesystems
// don't expose a birth timestamp through stat.
func birthTime(info fs.FileInfo) (time.Time, error) {
	return info.ModTime(), nil
}
