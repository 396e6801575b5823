package organizer

import (
	"fmt"
	"os"
	"path/filepath"
)

// Undo moves every file of one tracked operation back to its original
// location and deletes the restored records from the store.
//
// Records whose file is missing at the tracked location, or whose
// original location is occupied, are counted as errors and skipped; a
// file is never overwritten. Record deletion happens in a single batch
// strictly after all restores, and only for records whose restore
// succeeded, so a crash mid-undo leaves the remaining records intact and
// the undo safely retryable. An unknown or stale operation ID yields a
// zero result, not an error.
func (s *Service) Undo(operationID string, dryRun bool) (*UndoResult, error) {
	res := &UndoResult{OperationID: operationID}

	records, err := s.store.FindByOperation(operationID)
	if err != nil {
		return nil, fmt.Errorf("loading operation %s: %w", operationID, err)
	}
	if len(records) == 0 {
		s.logger.Warn("no records for operation", "operation_id", operationID)
		return res, nil
	}

	s.logger.Info("undo started",
		"operation_id", operationID,
		"records", len(records),
		"dry_run", dryRun,
	)

	var restored []int64
	for _, rec := range records {
		if _, err := os.Lstat(rec.NewPath); err != nil {
			s.logger.Warn("file missing at tracked location", "path", rec.NewPath)
			res.Errors++
			continue
		}
		if _, err := os.Lstat(rec.OriginalPath); err == nil {
			s.logger.Warn("original location occupied", "path", rec.OriginalPath)
			res.Errors++
			continue
		}

		if dryRun {
			s.logger.Info("would restore", "from", rec.NewPath, "to", rec.OriginalPath)
			res.FilesRestored++
			continue
		}

		if err := os.MkdirAll(filepath.Dir(rec.OriginalPath), 0755); err != nil {
			s.logger.Error("creating original parent directory failed",
				"path", rec.OriginalPath, "error", err)
			res.Errors++
			continue
		}
		if err := moveFile(rec.NewPath, rec.OriginalPath); err != nil {
			s.logger.Error("restore failed", "from", rec.NewPath, "to", rec.OriginalPath, "error", err)
			res.Errors++
			continue
		}
		restored = append(restored, rec.ID)
		res.FilesRestored++
		s.logger.Info("restored", "path", rec.OriginalPath)
	}

	// Delete only after the filesystem restores succeeded. A crash before
	// this point leaves orphan records pointing at restored paths, which a
	// re-run reports as per-record errors rather than failing.
	if !dryRun && len(restored) > 0 {
		if err := s.store.DeleteByIDs(restored); err != nil {
			return res, fmt.Errorf("deleting restored records: %w", err)
		}
		s.logger.Info("removed restored records", "count", len(restored))
	}

	return res, nil
}

// UndoLast undoes the most recent tracked operation. An empty store
// yields a zero result.
func (s *Service) UndoLast(dryRun bool) (*UndoResult, error) {
	operationID, err := s.store.LastOperationID()
	if err != nil {
		return nil, fmt.Errorf("finding last operation: %w", err)
	}
	if operationID == "" {
		s.logger.Warn("no operations recorded")
		return &UndoResult{}, nil
	}
	return s.Undo(operationID, dryRun)
}
