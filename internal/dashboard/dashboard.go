// Package dashboard renders a terminal overview of the tracking store:
// distribution bar charts, duplicate waste, recent runs and the
// prediction model's training state.
package dashboard

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"tidy-go/internal/learn"
	"tidy-go/internal/model"
)

// Store is the slice of the tracking store that the dashboard reads.
type Store interface {
	Stats() (*model.StoreStats, error)
	DuplicateGroups() ([]*model.DuplicateGroup, error)
	Operations(limit int) ([]*model.OperationSummary, error)
}

// recentOperations is how many runs the history panel shows.
const recentOperations = 5

// defaultWidth is used when the output is not a terminal.
const defaultWidth = 80

// TerminalWidth returns the current terminal width, or defaultWidth when
// stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

// Render writes the full dashboard. width controls bar chart scaling;
// pass TerminalWidth() for interactive use.
func Render(w io.Writer, store Store, m *learn.Model, width int) error {
	if width <= 0 {
		width = defaultWidth
	}

	stats, err := store.Stats()
	if err != nil {
		return fmt.Errorf("reading store stats: %w", err)
	}

	fmt.Fprintln(w, titleStyle.Render("tidy dashboard"))

	if stats.TotalFiles == 0 {
		fmt.Fprintln(w, labelStyle.Render("nothing tracked yet; run a live organize with --track"))
		return nil
	}

	fmt.Fprintln(w, boxStyle.Render(fmt.Sprintf(
		"%d files   %s   %d runs",
		stats.TotalFiles, formatBytes(stats.TotalSizeBytes), stats.TotalOperations,
	)))

	renderDistribution(w, stats, width)

	if err := renderDuplicates(w, store); err != nil {
		return err
	}
	if err := renderOperations(w, store); err != nil {
		return err
	}
	renderLearning(w, m)

	return nil
}

// renderDistribution draws one scaled bar per category, largest first.
func renderDistribution(w io.Writer, stats *model.StoreStats, width int) {
	fmt.Fprintln(w, sectionStyle.Render("distribution"))

	type entry struct {
		name  string
		count int64
	}
	entries := make([]entry, 0, len(stats.FilesByType))
	var max int64
	for name, count := range stats.FilesByType {
		entries = append(entries, entry{name, count})
		if count > max {
			max = count
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	// Leave room for the label column and the count suffix.
	barWidth := width - 30
	if barWidth < 10 {
		barWidth = 10
	}

	for _, e := range entries {
		n := int(int64(barWidth) * e.count / max)
		if n < 1 {
			n = 1
		}
		fmt.Fprintf(w, "%s %s %d\n",
			labelStyle.Render(fmt.Sprintf("%12s", e.name)),
			barStyle.Render(strings.Repeat("█", n)),
			e.count,
		)
	}
}

func renderDuplicates(w io.Writer, store Store) error {
	groups, err := store.DuplicateGroups()
	if err != nil {
		return fmt.Errorf("reading duplicates: %w", err)
	}

	fmt.Fprintln(w, sectionStyle.Render("duplicates"))
	if len(groups) == 0 {
		fmt.Fprintln(w, labelStyle.Render("none tracked"))
		return nil
	}

	var copies int
	var wasted int64
	for _, g := range groups {
		copies += len(g.Records) - 1
		wasted += g.WastedBytes()
	}
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf(
		"%d duplicate files in %d groups, %s wasted",
		copies, len(groups), formatBytes(wasted),
	)))
	return nil
}

func renderOperations(w io.Writer, store Store) error {
	ops, err := store.Operations(recentOperations)
	if err != nil {
		return fmt.Errorf("reading operations: %w", err)
	}

	fmt.Fprintln(w, sectionStyle.Render("recent runs"))
	if len(ops) == 0 {
		fmt.Fprintln(w, labelStyle.Render("none"))
		return nil
	}
	for _, op := range ops {
		fmt.Fprintf(w, "%s  %s  %d files  %s\n",
			op.StartedAt.Format("2006-01-02 15:04"),
			op.OperationID,
			op.FileCount,
			formatBytes(op.TotalSize),
		)
	}
	return nil
}

func renderLearning(w io.Writer, m *learn.Model) {
	fmt.Fprintln(w, sectionStyle.Render("learning"))
	if m == nil || m.TotalSamples == 0 {
		fmt.Fprintln(w, labelStyle.Render("untrained; run tidy learn"))
		return
	}

	status := "collecting samples"
	if m.TotalSamples >= learn.MinSamples {
		status = "ready to predict"
	}
	fmt.Fprintf(w, "%d samples, %d file types, %s\n",
		m.TotalSamples, len(m.TypeToDest), status)
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
