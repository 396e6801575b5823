// Package suggest analyzes the tracking store and the prediction model
// and produces prioritized, actionable suggestions.
package suggest

import (
	"fmt"
	"sort"

	"tidy-go/internal/learn"
	"tidy-go/internal/model"
)

// Priorities, strongest first.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// megabyte in bytes.
const megabyte = 1024 * 1024

// wastedSpaceHighMB is the duplicate waste above which the cleanup
// suggestion escalates from medium to high priority.
const wastedSpaceHighMB = 10.0

// dominanceThreshold is the share of all files one category must exceed
// before a subcategory suggestion fires.
const dominanceThreshold = 0.5

// largeFilesThresholdMB is the combined size of the biggest tracked
// files above which an archiving suggestion fires.
const largeFilesThresholdMB = 100.0

// Suggestion is one actionable recommendation.
type Suggestion struct {
	Type        string
	Priority    string
	Description string
	Details     []string
	Action      string // suggested command, empty if none
}

// Store is the slice of the tracking store that analysis needs.
type Store interface {
	Stats() (*model.StoreStats, error)
	DuplicateGroups() ([]*model.DuplicateGroup, error)
	ListAll() ([]*model.FileRecord, error)
}

// Generate inspects the store and the model (nil when untrained) and
// returns suggestions ordered by priority, strongest first.
func Generate(store Store, m *learn.Model) ([]Suggestion, error) {
	stats, err := store.Stats()
	if err != nil {
		return nil, fmt.Errorf("reading store stats: %w", err)
	}

	groups, err := store.DuplicateGroups()
	if err != nil {
		return nil, fmt.Errorf("analyzing duplicates: %w", err)
	}

	var suggestions []Suggestion

	if m != nil && m.TotalSamples >= learn.MinSamples {
		suggestions = append(suggestions, Suggestion{
			Type:        "learning_active",
			Priority:    PriorityLow,
			Description: "adaptive learning model active",
			Details: []string{
				fmt.Sprintf("trained on %d moves", m.TotalSamples),
				fmt.Sprintf("%d file types learned", len(m.TypeToDest)),
			},
			Action: "tidy predict FILE",
		})
	}

	if s := duplicateSuggestion(groups); s != nil {
		suggestions = append(suggestions, *s)
	}

	if s := dominanceSuggestion(stats); s != nil {
		suggestions = append(suggestions, *s)
	}

	if s, err := largeFilesSuggestion(store); err != nil {
		return nil, err
	} else if s != nil {
		suggestions = append(suggestions, *s)
	}

	if stats.TotalOperations > 5 {
		suggestions = append(suggestions, Suggestion{
			Type:        "operations",
			Priority:    PriorityLow,
			Description: fmt.Sprintf("%d organize runs recorded", stats.TotalOperations),
			Details:     []string{"old runs can no longer be meaningfully undone"},
			Action:      "tidy history",
		})
	}

	if len(groups) == 0 && stats.TotalFiles > 0 {
		suggestions = append(suggestions, Suggestion{
			Type:        "positive",
			Priority:    PriorityLow,
			Description: "no duplicates tracked, every file is unique",
			Details:     []string{fmt.Sprintf("%d files tracked", stats.TotalFiles)},
		})
	}

	sortByPriority(suggestions)
	return suggestions, nil
}

func duplicateSuggestion(groups []*model.DuplicateGroup) *Suggestion {
	if len(groups) == 0 {
		return nil
	}

	var copies int
	var wasted int64
	for _, g := range groups {
		copies += len(g.Records) - 1
		wasted += g.WastedBytes()
	}

	wastedMB := float64(wasted) / megabyte
	priority := PriorityMedium
	if wastedMB > wastedSpaceHighMB {
		priority = PriorityHigh
	}

	return &Suggestion{
		Type:        "duplicates",
		Priority:    priority,
		Description: fmt.Sprintf("%d duplicate files found", copies),
		Details: []string{
			fmt.Sprintf("%d duplicate groups", len(groups)),
			fmt.Sprintf("%.2f MB wasted", wastedMB),
		},
		Action: "tidy organize DIR --live --remove-dups",
	}
}

func dominanceSuggestion(stats *model.StoreStats) *Suggestion {
	if stats.TotalFiles == 0 {
		return nil
	}

	var topType string
	var topCount int64
	for fileType, count := range stats.FilesByType {
		if count > topCount || (count == topCount && fileType < topType) {
			topType, topCount = fileType, count
		}
	}

	share := float64(topCount) / float64(stats.TotalFiles)
	if share <= dominanceThreshold {
		return nil
	}

	return &Suggestion{
		Type:        "distribution",
		Priority:    PriorityLow,
		Description: fmt.Sprintf("category %q dominates your files", topType),
		Details: []string{
			fmt.Sprintf("%.0f%% of all tracked files", share*100),
			fmt.Sprintf("consider subcategories for %s", topType),
		},
	}
}

func largeFilesSuggestion(store Store) (*Suggestion, error) {
	records, err := store.ListAll()
	if err != nil {
		return nil, fmt.Errorf("analyzing large files: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].FileSize > records[j].FileSize
	})
	top := records
	if len(top) > 5 {
		top = top[:5]
	}

	var total int64
	for _, r := range top {
		total += r.FileSize
	}
	totalMB := float64(total) / megabyte
	if totalMB <= largeFilesThresholdMB {
		return nil, nil
	}

	return &Suggestion{
		Type:        "large_files",
		Priority:    PriorityMedium,
		Description: fmt.Sprintf("top %d files occupy %.2f MB", len(top), totalMB),
		Details: []string{
			fmt.Sprintf("largest: %s (%.2f MB)", top[0].FileName, float64(top[0].FileSize)/megabyte),
			"consider archiving or compressing large files",
		},
	}, nil
}

var priorityRank = map[string]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

func sortByPriority(suggestions []Suggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		return priorityRank[suggestions[i].Priority] < priorityRank[suggestions[j].Priority]
	})
}
