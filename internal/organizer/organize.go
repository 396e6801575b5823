package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tidy-go/internal/category"
	"tidy-go/internal/model"
)

// Organize scans sourceDir, classifies each discovered file, and moves it
// under outputDir (or previews the moves when opts.DryRun is set).
//
// Directory-level validation failures abort the whole run: the returned
// result has Errors=1 and zero files processed, alongside a non-nil
// error. Per-file failures are counted and logged, and never abort the
// run. A tracking-store write failure after a successful move is treated
// as a logged, counted inconsistency, not a fatal error: the filesystem
// move is the source of truth and the store is metadata layered on top.
func (s *Service) Organize(sourceDir, outputDir string, opts Options) (*OrganizeResult, error) {
	if opts.RemoveDuplicates {
		opts.CheckDuplicates = true
	}

	res := &OrganizeResult{}

	src, err := s.fsmgr.Resolve(sourceDir)
	if err != nil {
		res.Errors = 1
		return res, fmt.Errorf("resolving source directory: %w", err)
	}
	if !src.IsDir() {
		res.Errors = 1
		return res, fmt.Errorf("source path is not a directory: %s", src.String())
	}

	out, err := filepath.Abs(outputDir)
	if err != nil {
		res.Errors = 1
		return res, fmt.Errorf("resolving output directory: %w", err)
	}

	files, err := s.fsmgr.FindFiles(src, opts.Recursive)
	if err != nil {
		res.Errors = 1
		return res, fmt.Errorf("scanning source directory: %w", err)
	}

	if !opts.DryRun && opts.EnableTracking {
		res.OperationID = newOperationID(s.clock, s.idgen)
	}

	s.logger.Info("organize started",
		"source", src.String(),
		"output", out,
		"files", len(files),
		"dry_run", opts.DryRun,
		"operation_id", res.OperationID,
	)

	// Paths assigned during this run. Collision renaming consults this set
	// as well as the disk, so dry runs resolve names exactly as a live run
	// would, and two same-named files in one run never collide.
	claimed := make(map[string]bool)

	// Digests encountered during this run. Live runs would catch repeats
	// through the store after the first insert; tracking them here keeps
	// dry-run duplicate reporting identical to live behavior.
	seenDigests := make(map[string]bool)

	for i, f := range files {
		res.FilesProcessed++
		if opts.Progress != nil {
			opts.Progress(i+1, len(files))
		}

		if withinDir(f.String(), out) {
			s.logger.Info("skipping file already in output directory", "path", f.String())
			continue
		}

		var digest string
		if opts.CheckDuplicates || opts.EnableTracking {
			digest, err = s.hasher.Hash(f.String())
			if err != nil {
				s.logger.Error("hashing failed", "path", f.String(), "error", err)
				res.Errors++
				continue
			}
		}

		if opts.CheckDuplicates {
			existing, err := s.store.FindByDigest(digest)
			if err != nil {
				s.logger.Error("duplicate lookup failed", "path", f.String(), "error", err)
				res.Errors++
				continue
			}
			if existing != nil || seenDigests[digest] {
				res.DuplicatesFound++
				s.handleDuplicate(f, existing, opts, res)
				continue
			}
			seenDigests[digest] = true
		}

		cat := category.ForPath(f.String())

		created, cerr := s.fsmgr.CreationTime(f)
		if cerr != nil {
			// Creation metadata is best-effort; never fail a file over it.
			created = s.clock.Now()
		}

		targetDir := buildTargetDir(out, cat, created, opts.OrganizeByDate)
		target := resolveCollision(targetDir, f.Base(), claimed)
		claimed[target] = true
		res.Moves = append(res.Moves, Move{Source: f.String(), Target: target})

		if opts.DryRun {
			s.logger.Info("would move", "source", f.String(), "target", target)
			res.FilesMoved++
			continue
		}

		if err := os.MkdirAll(targetDir, 0755); err != nil {
			s.logger.Error("creating target directory failed", "dir", targetDir, "error", err)
			res.Errors++
			continue
		}
		if err := moveFile(f.String(), target); err != nil {
			s.logger.Error("move failed", "source", f.String(), "target", target, "error", err)
			res.Errors++
			continue
		}
		res.FilesMoved++
		s.logger.Info("moved", "source", f.String(), "target", target)

		if opts.EnableTracking {
			rec := &model.FileRecord{
				OriginalPath:  f.String(),
				NewPath:       target,
				FileName:      f.Base(),
				FileSize:      f.Info().Size(),
				FileType:      cat,
				CreatedAt:     created,
				ModifiedAt:    f.Info().ModTime(),
				ContentDigest: digest,
				OperationID:   res.OperationID,
			}
			if _, err := s.store.Insert(rec); err != nil {
				s.logger.Error("tracking insert failed; file moved but untracked",
					"path", target, "error", err)
				res.Errors++
			}
		}
	}

	s.logger.Info("organize finished",
		"processed", res.FilesProcessed,
		"moved", res.FilesMoved,
		"duplicates", res.DuplicatesFound,
		"errors", res.Errors,
	)
	return res, nil
}

// handleDuplicate processes a file whose content is already tracked (or
// already seen this run). The file never proceeds to categorization; with
// RemoveDuplicates it is deleted from the source.
func (s *Service) handleDuplicate(f *Path, existing *model.FileRecord, opts Options, res *OrganizeResult) {
	primary := ""
	if existing != nil {
		primary = existing.NewPath
	}
	s.logger.Warn("duplicate content", "path", f.String(), "tracked_copy", primary)

	if !opts.RemoveDuplicates {
		return
	}
	if opts.DryRun {
		s.logger.Info("would delete duplicate", "path", f.String())
		res.DuplicatesRemoved++
		return
	}
	if err := os.Remove(f.String()); err != nil {
		s.logger.Error("deleting duplicate failed", "path", f.String(), "error", err)
		res.Errors++
		return
	}
	res.DuplicatesRemoved++
	s.logger.Info("deleted duplicate", "path", f.String())
}

// buildTargetDir computes output/category[/year/month] for a file.
func buildTargetDir(outputDir, cat string, created time.Time, byDate bool) string {
	if !byDate {
		return filepath.Join(outputDir, cat)
	}
	return filepath.Join(outputDir, cat,
		fmt.Sprintf("%d", created.Year()),
		fmt.Sprintf("%02d", int(created.Month())),
	)
}

// resolveCollision returns dir/name, or dir/name_1.ext, dir/name_2.ext, …
// if that path is taken on disk or was already assigned this run.
func resolveCollision(dir, name string, claimed map[string]bool) string {
	target := filepath.Join(dir, name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; pathTaken(target, claimed); n++ {
		target = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
	return target
}

func pathTaken(path string, claimed map[string]bool) bool {
	if claimed[path] {
		return true
	}
	_, err := os.Lstat(path)
	return err == nil
}

// withinDir reports whether path lies inside dir (or is dir itself).
func withinDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
