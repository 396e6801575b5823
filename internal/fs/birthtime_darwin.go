//go:build darwin

package fs

import (
	"fmt"
	"io/fs"
	"syscall"
	"time"
)

// birthTime reads the file's birth timestamp from stat data.
// macOS (APFS, HFS+) records one for every file.
func birthTime(info fs.FileInfo) (time.Time, error) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, fmt.Errorf("cannot extract stat data: expected *syscall.Stat_t, got %T", info.Sys())
	}
	return time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec), nil
}
