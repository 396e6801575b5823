// Package category maps file extensions to the fixed set of coarse
// buckets used for organizing and tracking. The table is static and not
// user-configurable.
package category

import (
	"path/filepath"
	"strings"
)

// Default is the bucket for files whose extension matches no category.
const Default = "others"

var categories = map[string][]string{
	"images": {
		".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp",
		".ico", ".tiff", ".tif", ".heic", ".heif", ".raw",
	},
	"documents": {
		".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt", ".xls",
		".xlsx", ".ppt", ".pptx", ".csv", ".md", ".tex",
	},
	"videos": {
		".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm",
		".m4v", ".mpg", ".mpeg", ".3gp",
	},
	"audio": {
		".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma", ".m4a",
		".opus", ".aiff",
	},
	"archives": {
		".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz", ".tgz",
	},
	"code": {
		".py", ".js", ".java", ".cpp", ".c", ".h", ".cs", ".php",
		".rb", ".go", ".rs", ".swift", ".kt", ".ts", ".html",
		".css", ".scss", ".json", ".xml", ".yaml", ".yml",
	},
	"executables": {
		".exe", ".msi", ".app", ".dmg", ".deb", ".rpm", ".apk",
	},
}

var byExtension = func() map[string]string {
	m := make(map[string]string)
	for name, exts := range categories {
		for _, ext := range exts {
			m[ext] = name
		}
	}
	return m
}()

// ForExtension returns the category for a file extension (with leading
// dot). Matching is case-insensitive; unknown extensions map to Default.
func ForExtension(ext string) string {
	if name, ok := byExtension[strings.ToLower(ext)]; ok {
		return name
	}
	return Default
}

// ForPath returns the category for a file path based on its extension.
func ForPath(path string) string {
	return ForExtension(filepath.Ext(path))
}

// Names returns every category name including Default, sorted order not
// guaranteed.
func Names() []string {
	names := make([]string, 0, len(categories)+1)
	for name := range categories {
		names = append(names, name)
	}
	return append(names, Default)
}
