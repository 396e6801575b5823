package fs

import (
	"path/filepath"
	"strings"
)

// IgnoreMatcher checks discovered files against the configured skip
// rules: folder names whose contents are never scanned, and extensions
// that are never organized. Matching is case-insensitive.
type IgnoreMatcher struct {
	folders    map[string]bool
	extensions map[string]bool
}

// NewIgnoreMatcher creates an IgnoreMatcher from folder names and
// extensions. Extensions may be given with or without the leading dot.
func NewIgnoreMatcher(folders, extensions []string) *IgnoreMatcher {
	m := &IgnoreMatcher{
		folders:    make(map[string]bool),
		extensions: make(map[string]bool),
	}
	for _, f := range folders {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		m.folders[strings.ToLower(f)] = true
	}
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		m.extensions[e] = true
	}
	return m
}

// MatchFolder reports whether a directory with the given base name
// should be skipped entirely.
func (m *IgnoreMatcher) MatchFolder(name string) bool {
	return m.folders[strings.ToLower(name)]
}

// MatchFile reports whether a file with the given base name should be
// excluded from organizing.
func (m *IgnoreMatcher) MatchFile(name string) bool {
	return m.extensions[strings.ToLower(filepath.Ext(name))]
}
