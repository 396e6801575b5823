package organizer

// Options controls a single organize run.
type Options struct {
	// OrganizeByDate appends year/month subfolders under the category.
	OrganizeByDate bool
	// Recursive descends into subdirectories during the scan.
	Recursive bool
	// DryRun computes and reports intended actions without touching the
	// filesystem or the store.
	DryRun bool
	// EnableTracking records one FileRecord per moved file.
	EnableTracking bool
	// CheckDuplicates skips files whose content digest is already tracked.
	CheckDuplicates bool
	// RemoveDuplicates deletes detected duplicates from the source instead
	// of leaving them in place. Implies CheckDuplicates.
	RemoveDuplicates bool
	// Progress, if set, is called after each file with (processed, total).
	Progress func(processed, total int)
}

// Move describes one planned or performed file move.
type Move struct {
	Source string
	Target string
}

// OrganizeResult summarizes one organize run. Moves carries the per-file
// actions so callers can render previews without the engine writing to a
// shared output.
type OrganizeResult struct {
	OperationID       string // empty for dry runs and untracked runs
	FilesProcessed    int
	FilesMoved        int
	Errors            int
	DuplicatesFound   int
	DuplicatesRemoved int
	Moves             []Move
}

// UndoResult summarizes one undo run. In dry-run mode FilesRestored
// counts the files that would be restored.
type UndoResult struct {
	OperationID   string
	FilesRestored int
	Errors        int
}
