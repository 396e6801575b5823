// Package app is the application layer between the CLI and the core
// engines. It constructs all dependencies from config, exposes high-level
// operations that accept raw string paths, and manages the store
// lifecycle on Close.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tidy-go/internal/category"
	"tidy-go/internal/config"
	"tidy-go/internal/dashboard"
	"tidy-go/internal/database"
	"tidy-go/internal/fs"
	"tidy-go/internal/hash"
	"tidy-go/internal/learn"
	"tidy-go/internal/model"
	"tidy-go/internal/organizer"
	"tidy-go/internal/report"
	"tidy-go/internal/suggest"
)

// OutputDirName is the default output folder created inside the source
// directory when no explicit output is given. It doubles as the marker
// the prediction model uses to label destinations.
const OutputDirName = learn.Marker

// App wires the tracking store, filesystem, hasher and engines together
// for one CLI invocation. The caller must call Close when done.
type App struct {
	cfg     *config.Config
	store   organizer.Store
	fsmgr   organizer.FilesystemManager
	service *organizer.Service
	logger  *slog.Logger
	logFile *os.File
}

// NewApp creates a fully wired App from the given config.
func NewApp(cfg *config.Config) (*App, error) {
	ignore := fs.NewIgnoreMatcher(cfg.Preferences.IgnoredFolders, cfg.Preferences.IgnoredExtensions)
	fsmgr := fs.NewOSFilesystemManager(ignore)

	store, err := database.NewStoreFromConfig(cfg.Database, organizer.RealClock{})
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := organizer.NewService(
		store,
		fsmgr,
		hash.SHA256Hasher{},
		&slogAdapter{l: logger},
		organizer.RealClock{},
		organizer.UUIDGenerator{},
	)

	return &App{
		cfg:     cfg,
		store:   store,
		fsmgr:   fsmgr,
		service: svc,
		logger:  logger,
		logFile: logFile,
	}, nil
}

// OrganizeOptions are the CLI-facing knobs for one organize run. The
// year/month layout follows the organize_by_date preference unless
// NoDate explicitly disables it; everything else maps to the engine
// option of the same name.
type OrganizeOptions struct {
	NoDate           bool
	Recursive        bool
	Live             bool
	Track            bool
	CheckDuplicates  bool
	RemoveDuplicates bool
	Progress         func(processed, total int)
}

// Organize runs one organize pass. An empty outputDir defaults to an
// "organized" folder inside the source directory.
func (a *App) Organize(sourceDir, outputDir string, opts OrganizeOptions) (*organizer.OrganizeResult, error) {
	if outputDir == "" {
		outputDir = filepath.Join(sourceDir, OutputDirName)
	}
	return a.service.Organize(sourceDir, outputDir, organizer.Options{
		OrganizeByDate:   a.cfg.Preferences.OrganizeByDate && !opts.NoDate,
		Recursive:        opts.Recursive,
		DryRun:           !opts.Live,
		EnableTracking:   opts.Track,
		CheckDuplicates:  opts.CheckDuplicates,
		RemoveDuplicates: opts.RemoveDuplicates,
		Progress:         opts.Progress,
	})
}

// Undo restores one tracked run. A completed live undo is treated as
// negative feedback on the undone placements: the user rejected where
// those files went, so their patterns predict with less confidence
// next time. Feedback bookkeeping failures are logged, never fatal.
func (a *App) Undo(operationID string, dryRun bool) (*organizer.UndoResult, error) {
	var records []*model.FileRecord
	if !dryRun {
		var err error
		if records, err = a.store.FindByOperation(operationID); err != nil {
			return nil, fmt.Errorf("loading operation %s: %w", operationID, err)
		}
	}

	res, err := a.service.Undo(operationID, dryRun)
	if err != nil {
		return nil, err
	}

	if !dryRun && res.FilesRestored > 0 {
		a.recordUndoFeedback(operationID, records)
	}
	return res, nil
}

// UndoLast restores the most recent tracked run.
func (a *App) UndoLast(dryRun bool) (*organizer.UndoResult, error) {
	operationID, err := a.store.LastOperationID()
	if err != nil {
		return nil, fmt.Errorf("finding last operation: %w", err)
	}
	if operationID == "" {
		return &organizer.UndoResult{}, nil
	}
	return a.Undo(operationID, dryRun)
}

func (a *App) recordUndoFeedback(operationID string, records []*model.FileRecord) {
	fb := learn.LoadFeedback(a.cfg.Learning.Dir)
	if fb.RecordUndo(records, time.Now()) == 0 {
		return
	}
	if err := learn.SaveFeedback(fb, a.cfg.Learning.Dir); err != nil {
		a.logger.Error("saving undo feedback failed", "operation_id", operationID, "error", err)
		return
	}
	a.logger.Info("recorded undo feedback", "operation_id", operationID, "records", len(records))
}

// Duplicates returns all tracked duplicate groups.
func (a *App) Duplicates() ([]*model.DuplicateGroup, error) {
	return a.store.DuplicateGroups()
}

// Stats returns aggregate store statistics.
func (a *App) Stats() (*model.StoreStats, error) {
	return a.store.Stats()
}

// History returns per-run summaries, newest first.
func (a *App) History(limit int) ([]*model.OperationSummary, error) {
	return a.store.Operations(limit)
}

// Learn retrains the prediction model from the full move history and
// persists it to the configured learning directory.
func (a *App) Learn() (*learn.Model, error) {
	m, err := learn.Train(a.store, time.Now())
	if err != nil {
		return nil, fmt.Errorf("training model: %w", err)
	}
	if err := learn.Save(m, a.cfg.Learning.Dir); err != nil {
		return nil, err
	}
	return m, nil
}

// Predict loads the persisted model and predicts a destination for the
// given file path. The file does not need to exist; only its name drives
// the prediction. Accumulated feedback scales the raw confidence before
// the configured bias does. Returns nil when the model is missing or
// has no signal.
func (a *App) Predict(rawPath string) (*learn.Prediction, error) {
	m, err := learn.Load(a.cfg.Learning.Dir)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}

	name := filepath.Base(rawPath)
	meta := learn.FileMeta{
		FileName: name,
		FileType: category.ForPath(name),
		FileExt:  strings.ToLower(filepath.Ext(name)),
	}
	p := m.Predict(meta)
	if p == nil {
		return nil, nil
	}

	fb := learn.LoadFeedback(a.cfg.Learning.Dir)
	p.Confidence = fb.Apply(p.Confidence, meta)
	p.Confidence = learn.Bias(p.Confidence, a.cfg.Learning.ConfidenceBias)
	return p, nil
}

// AutoThreshold exposes the configured auto-organize confidence bar.
func (a *App) AutoThreshold() float64 {
	return a.cfg.Learning.AutoThreshold
}

// Suggest analyzes the store and model and returns prioritized
// suggestions.
func (a *App) Suggest() ([]suggest.Suggestion, error) {
	m, err := learn.Load(a.cfg.Learning.Dir)
	if err != nil {
		return nil, err
	}
	return suggest.Generate(a.store, m)
}

// Report builds the full exportable report.
func (a *App) Report() (*report.Report, error) {
	m, err := learn.Load(a.cfg.Learning.Dir)
	if err != nil {
		return nil, err
	}
	return report.Build(a.store, m, time.Now())
}

// Dashboard renders the terminal dashboard to w.
func (a *App) Dashboard(w io.Writer, width int) error {
	m, err := learn.Load(a.cfg.Learning.Dir)
	if err != nil {
		return err
	}
	return dashboard.Render(w, a.store, m, width)
}

// Close releases the store and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
