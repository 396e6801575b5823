// Package learn builds a frequency model of past organize runs and
// predicts destinations for new files with explainable, confidence-scored
// reasoning. Everything is local: the model trains from the tracking
// store and persists as a JSON file.
package learn

import (
	"path/filepath"
	"strings"
	"time"

	"tidy-go/internal/model"
)

// Marker is the folder name that identifies the organized tree inside a
// tracked path. The path segment that follows it is the destination label.
const Marker = "organized"

// Model holds the learned frequency tables. Counts map a signal (file
// type, extension, or filename prefix) to the destinations it has been
// filed under.
type Model struct {
	TypeToDest   map[string]map[string]int `json:"type_to_dest"`
	ExtToDest    map[string]map[string]int `json:"ext_to_dest"`
	PrefixToDest map[string]map[string]int `json:"prefix_to_dest"`

	// Temporal groups the type table by the year a file was created,
	// keeping enough signal for year-over-year habit shifts.
	Temporal map[int]map[string]map[string]int `json:"temporal"`

	TotalSamples int       `json:"total_samples"`
	LastTrained  time.Time `json:"last_trained"`
}

// NewModel returns an empty model ready for training.
func NewModel() *Model {
	return &Model{
		TypeToDest:   make(map[string]map[string]int),
		ExtToDest:    make(map[string]map[string]int),
		PrefixToDest: make(map[string]map[string]int),
		Temporal:     make(map[int]map[string]map[string]int),
	}
}

// Observe folds one tracked move into the frequency tables.
func (m *Model) Observe(rec *model.FileRecord) {
	dest := DestinationLabel(rec.NewPath)

	bump(m.TypeToDest, rec.FileType, dest)

	if ext := strings.ToLower(filepath.Ext(rec.FileName)); ext != "" {
		bump(m.ExtToDest, ext, dest)
	}

	bump(m.PrefixToDest, NamePrefix(rec.FileName), dest)

	year := rec.CreatedAt.Year()
	if m.Temporal[year] == nil {
		m.Temporal[year] = make(map[string]map[string]int)
	}
	bump(m.Temporal[year], rec.FileType, dest)

	m.TotalSamples++
}

func bump(table map[string]map[string]int, key, dest string) {
	if table[key] == nil {
		table[key] = make(map[string]int)
	}
	table[key][dest]++
}

// HistorySource is the slice of the tracking store that training needs.
type HistorySource interface {
	ListAll() ([]*model.FileRecord, error)
}

// Train builds a fresh model from the full move history, oldest record
// first.
func Train(src HistorySource, now time.Time) (*Model, error) {
	records, err := src.ListAll()
	if err != nil {
		return nil, err
	}

	m := NewModel()
	for _, rec := range records {
		m.Observe(rec)
	}
	m.LastTrained = now
	return m, nil
}

// NamePrefix extracts the leading token of a filename for pattern
// learning: "report_2024_Q1.pdf" yields "report", "IMG_1234.jpg" yields
// "img". Names with no usable token yield "unknown".
func NamePrefix(fileName string) string {
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	fields := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

// DestinationLabel extracts the meaningful destination from a tracked
// path: the segment after the organized-tree marker when present, the
// parent folder name otherwise, "unknown" as a last resort.
func DestinationLabel(path string) string {
	if dest, ok := markerDestination(path); ok {
		return dest
	}
	if parent := filepath.Base(filepath.Dir(path)); parent != "." && parent != string(filepath.Separator) && parent != "/" {
		return parent
	}
	return "unknown"
}

// markerDestination returns the path segment following the organized-tree
// marker, or false when the path has no marker (or nothing after it).
func markerDestination(path string) (string, bool) {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for i, part := range parts {
		if part == Marker && i+1 < len(parts) {
			return parts[i+1], true
		}
	}
	return "", false
}
