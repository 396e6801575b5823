package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tidy-go/internal/app"
	"tidy-go/internal/config"
	"tidy-go/internal/dashboard"
	"tidy-go/internal/learn"
	"tidy-go/internal/organizer"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
func newApp() (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "tidy",
	Short: "Organize files by category and date, with undo and duplicate tracking",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get application defaults
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Create config with defaults
		cfg := config.NewConfig(defaults["base_dir"])

		// Initialize config file
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get application defaults
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Read config
		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		// Display config
		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:       %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:        %s\n", cfg.LogDir)
		fmt.Printf("Database:       %s (%s)\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Learning Dir:   %s\n", cfg.Learning.Dir)
		fmt.Printf("Auto Threshold: %.2f\n", cfg.Learning.AutoThreshold)
		fmt.Printf("By Date:        %t\n", cfg.Preferences.OrganizeByDate)
		fmt.Printf("Ignored:        %s %s\n",
			strings.Join(cfg.Preferences.IgnoredFolders, ","),
			strings.Join(cfg.Preferences.IgnoredExtensions, ","),
		)
		return nil
	},
}

// organize command
var organizeCmd = &cobra.Command{
	Use:   "organize DIR",
	Short: "Organize a directory by file category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		live, _ := cmd.Flags().GetBool("live")
		noDate, _ := cmd.Flags().GetBool("no-date")
		recursive, _ := cmd.Flags().GetBool("recursive")
		track, _ := cmd.Flags().GetBool("track")
		checkDups, _ := cmd.Flags().GetBool("check-dups")
		removeDups, _ := cmd.Flags().GetBool("remove-dups")
		output, _ := cmd.Flags().GetString("output")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sourceDir, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}
		if output != "" {
			if output, err = filepath.Abs(output); err != nil {
				return fmt.Errorf("resolving output path: %w", err)
			}
		}

		opts := app.OrganizeOptions{
			NoDate:           noDate,
			Recursive:        recursive,
			Live:             live,
			Track:            track,
			CheckDuplicates:  checkDups,
			RemoveDuplicates: removeDups,
		}

		// Only show a progress bar when files actually move.
		var bar *progressbar.ProgressBar
		if live {
			opts.Progress = func(processed, total int) {
				if bar == nil {
					bar = progressbar.Default(int64(total), "organizing")
				}
				bar.Set(processed)
			}
		}

		result, err := a.Organize(sourceDir, output, opts)
		if err != nil {
			return fmt.Errorf("organize failed: %w", err)
		}
		if bar != nil {
			bar.Finish()
			fmt.Println()
		}

		if !live {
			fmt.Println("Dry run. Use --live to apply.")
			for _, m := range result.Moves {
				fmt.Printf("  %s -> %s\n", m.Source, m.Target)
			}
		}

		fmt.Printf("Processed %d file(s), moved %d, errors %d\n",
			result.FilesProcessed, result.FilesMoved, result.Errors)
		if result.DuplicatesFound > 0 {
			fmt.Printf("Duplicates: %d found, %d removed\n",
				result.DuplicatesFound, result.DuplicatesRemoved)
		}
		if result.OperationID != "" {
			fmt.Printf("Operation: %s (undo with: tidy undo %s)\n",
				result.OperationID, result.OperationID)
		}
		return nil
	},
}

// undo command
var undoCmd = &cobra.Command{
	Use:   "undo [OPERATION]",
	Short: "Restore files moved by a tracked run (defaults to the last run)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var result *organizer.UndoResult
		if len(args) == 0 || args[0] == "last" {
			result, err = a.UndoLast(dryRun)
		} else {
			result, err = a.Undo(args[0], dryRun)
		}
		if err != nil {
			return fmt.Errorf("undo failed: %w", err)
		}

		if result.OperationID == "" {
			fmt.Println("Nothing to undo.")
			return nil
		}

		verb := "Restored"
		if dryRun {
			verb = "Would restore"
		}
		fmt.Printf("%s %d file(s) from %s", verb, result.FilesRestored, result.OperationID)
		if result.Errors > 0 {
			fmt.Printf(", %d skipped", result.Errors)
		}
		fmt.Println()
		return nil
	},
}

// dups command
var dupsCmd = &cobra.Command{
	Use:   "dups",
	Short: "List tracked duplicate files",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		groups, err := a.Duplicates()
		if err != nil {
			return err
		}

		if len(groups) == 0 {
			fmt.Println("No duplicates tracked.")
			return nil
		}

		var wasted int64
		for _, g := range groups {
			fmt.Printf("%s  %d copies\n", g.Digest[:12], len(g.Records))
			for _, r := range g.Records {
				fmt.Printf("  %s  %d bytes\n", r.NewPath, r.FileSize)
			}
			wasted += g.WastedBytes()
		}
		fmt.Printf("\n%d group(s), %d wasted byte(s)\n", len(groups), wasted)
		return nil
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "View tracking statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.Stats()
		if err != nil {
			return err
		}

		fmt.Printf("Files tracked:  %d\n", stats.TotalFiles)
		fmt.Printf("Total size:     %d bytes\n", stats.TotalSizeBytes)
		fmt.Printf("Organize runs:  %d\n", stats.TotalOperations)
		for fileType, count := range stats.FilesByType {
			fmt.Printf("  %-12s %d\n", fileType, count)
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View organize run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No organize runs recorded.")
			return nil
		}

		for _, op := range ops {
			fmt.Printf("%s  %s  %d file(s)  %d bytes\n",
				op.StartedAt.Format("2006-01-02 15:04:05"),
				op.OperationID,
				op.FileCount,
				op.TotalSize,
			)
		}
		return nil
	},
}

// learn command
var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Train the destination prediction model from move history",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		m, err := a.Learn()
		if err != nil {
			return fmt.Errorf("learn failed: %w", err)
		}

		fmt.Printf("Trained on %d move(s): %d file type(s), %d extension(s), %d prefix(es)\n",
			m.TotalSamples, len(m.TypeToDest), len(m.ExtToDest), len(m.PrefixToDest))
		if m.TotalSamples < learn.MinSamples {
			fmt.Printf("Need at least %d samples before predictions are made.\n", learn.MinSamples)
		}
		return nil
	},
}

// predict command
var predictCmd = &cobra.Command{
	Use:   "predict FILE",
	Short: "Predict a destination for a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Predict(args[0])
		if err != nil {
			return fmt.Errorf("predict failed: %w", err)
		}

		if p == nil {
			fmt.Println("No prediction. Train with: tidy learn")
			return nil
		}

		fmt.Printf("Destination: %s\n", p.Destination)
		fmt.Printf("Confidence:  %.2f (%s)\n", p.Confidence, p.Level())
		fmt.Printf("Reason:      %s\n", p.Reason)
		if p.Confidence >= a.AutoThreshold() {
			fmt.Println("Confidence is high enough to auto-organize.")
		}
		return nil
	},
}

// suggest command
var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "View suggestions based on tracked history",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		suggestions, err := a.Suggest()
		if err != nil {
			return err
		}

		if len(suggestions) == 0 {
			fmt.Println("Nothing to suggest yet. Run a tracked organize first.")
			return nil
		}

		for _, s := range suggestions {
			fmt.Printf("[%s] %s\n", strings.ToUpper(s.Priority), s.Description)
			for _, d := range s.Details {
				fmt.Printf("    %s\n", d)
			}
			if s.Action != "" {
				fmt.Printf("    try: %s\n", s.Action)
			}
		}
		return nil
	},
}

// report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export a report of tracked activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("output")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		rep, err := a.Report()
		if err != nil {
			return fmt.Errorf("building report: %w", err)
		}

		out := os.Stdout
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating report file: %w", err)
			}
			defer f.Close()
			out = f
		}

		switch format {
		case "json":
			err = rep.WriteJSON(out)
		case "csv":
			err = rep.WriteCSV(out)
		default:
			return fmt.Errorf("unknown report format %q (want json or csv)", format)
		}
		if err != nil {
			return fmt.Errorf("writing report: %w", err)
		}

		if outPath != "" {
			fmt.Printf("Report written to %s\n", outPath)
		}
		return nil
	},
}

// dashboard command
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "View a terminal dashboard of tracked activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Dashboard(os.Stdout, dashboard.TerminalWidth())
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// organize flags
	organizeCmd.Flags().StringP("output", "o", "", "Output directory (default: DIR/organized)")
	organizeCmd.Flags().Bool("live", false, "Apply changes (default is a dry run)")
	organizeCmd.Flags().Bool("no-date", false, "Skip year/month subfolders")
	organizeCmd.Flags().BoolP("recursive", "r", false, "Recurse into subdirectories")
	organizeCmd.Flags().Bool("track", false, "Record moves for undo")
	organizeCmd.Flags().Bool("check-dups", false, "Skip files whose content is already tracked")
	organizeCmd.Flags().Bool("remove-dups", false, "Delete detected duplicates from the source")

	undoCmd.Flags().Bool("dry-run", false, "Show what would be restored without restoring")

	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of runs to show")

	reportCmd.Flags().String("format", "json", "Report format: json or csv")
	reportCmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(organizeCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(dupsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(dashboardCmd)
}
