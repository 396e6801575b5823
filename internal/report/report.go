// Package report builds an aggregate view of the tracking store and the
// prediction model and exports it as JSON or CSV.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"tidy-go/internal/learn"
	"tidy-go/internal/model"
)

// Store is the slice of the tracking store that reporting needs.
type Store interface {
	Stats() (*model.StoreStats, error)
	DuplicateGroups() ([]*model.DuplicateGroup, error)
	Operations(limit int) ([]*model.OperationSummary, error)
}

// Report is the full exportable state of a tidy installation.
type Report struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	Stats       *model.StoreStats         `json:"stats"`
	Duplicates  []DuplicateSummary        `json:"duplicates"`
	Operations  []*model.OperationSummary `json:"operations"`
	Learning    *LearningSummary          `json:"learning,omitempty"`
}

// DuplicateSummary flattens one duplicate group for export.
type DuplicateSummary struct {
	Digest      string `json:"digest"`
	FileName    string `json:"file_name"` // name of the first tracked copy
	Copies      int    `json:"copies"`
	WastedBytes int64  `json:"wasted_bytes"`
}

// LearningSummary describes the prediction model's training state.
type LearningSummary struct {
	TotalSamples   int       `json:"total_samples"`
	FileTypes      int       `json:"file_types"`
	Extensions     int       `json:"extensions"`
	NamePrefixes   int       `json:"name_prefixes"`
	LastTrained    time.Time `json:"last_trained"`
	ReadyToPredict bool      `json:"ready_to_predict"`
}

// operationsLimit caps how many runs a report includes.
const operationsLimit = 50

// Build assembles a Report from the store and the model (nil when
// untrained).
func Build(store Store, m *learn.Model, now time.Time) (*Report, error) {
	stats, err := store.Stats()
	if err != nil {
		return nil, fmt.Errorf("reading store stats: %w", err)
	}

	groups, err := store.DuplicateGroups()
	if err != nil {
		return nil, fmt.Errorf("reading duplicates: %w", err)
	}

	ops, err := store.Operations(operationsLimit)
	if err != nil {
		return nil, fmt.Errorf("reading operations: %w", err)
	}

	rep := &Report{
		GeneratedAt: now,
		Stats:       stats,
		Operations:  ops,
	}

	for _, g := range groups {
		rep.Duplicates = append(rep.Duplicates, DuplicateSummary{
			Digest:      g.Digest,
			FileName:    g.Records[0].FileName,
			Copies:      len(g.Records),
			WastedBytes: g.WastedBytes(),
		})
	}

	if m != nil {
		rep.Learning = &LearningSummary{
			TotalSamples:   m.TotalSamples,
			FileTypes:      len(m.TypeToDest),
			Extensions:     len(m.ExtToDest),
			NamePrefixes:   len(m.PrefixToDest),
			LastTrained:    m.LastTrained,
			ReadyToPredict: m.TotalSamples >= learn.MinSamples,
		}
	}

	return rep, nil
}

// WriteJSON exports the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// WriteCSV exports the report as a single CSV stream of labeled
// sections: summary metrics, per-type distribution, duplicate groups and
// operation history. Section header rows carry the section name in the
// first column.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"section", "metric", "value"},
		{"summary", "generated_at", r.GeneratedAt.Format(time.RFC3339)},
		{"summary", "total_files", strconv.FormatInt(r.Stats.TotalFiles, 10)},
		{"summary", "total_size_bytes", strconv.FormatInt(r.Stats.TotalSizeBytes, 10)},
		{"summary", "total_operations", strconv.FormatInt(r.Stats.TotalOperations, 10)},
	}

	types := make([]string, 0, len(r.Stats.FilesByType))
	for fileType := range r.Stats.FilesByType {
		types = append(types, fileType)
	}
	sort.Strings(types)
	for _, fileType := range types {
		rows = append(rows, []string{"distribution", fileType, strconv.FormatInt(r.Stats.FilesByType[fileType], 10)})
	}

	for _, d := range r.Duplicates {
		rows = append(rows, []string{
			"duplicates", d.FileName,
			fmt.Sprintf("copies=%d wasted_bytes=%d", d.Copies, d.WastedBytes),
		})
	}

	for _, op := range r.Operations {
		rows = append(rows, []string{
			"operations", op.OperationID,
			fmt.Sprintf("files=%d size=%d started=%s",
				op.FileCount, op.TotalSize, op.StartedAt.Format(time.RFC3339)),
		})
	}

	if r.Learning != nil {
		rows = append(rows,
			[]string{"learning", "total_samples", strconv.Itoa(r.Learning.TotalSamples)},
			[]string{"learning", "ready_to_predict", strconv.FormatBool(r.Learning.ReadyToPredict)},
		)
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
