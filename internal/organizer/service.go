// Package organizer implements the core engines: the operation-tracked
// file-move loop with conflict-safe renaming and duplicate detection, and
// the undo engine that restores a tracked run.
package organizer

import (
	"fmt"
	"io"
	"os"
)

// Service coordinates the tracking store, filesystem and hasher to
// perform organize and undo runs.
type Service struct {
	store  Store
	fsmgr  FilesystemManager
	hasher Hasher
	logger Logger
	clock  Clock
	idgen  IDGenerator
}

// NewService creates a Service with the provided dependencies.
func NewService(store Store, fsmgr FilesystemManager, hasher Hasher, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		store:  store,
		fsmgr:  fsmgr,
		hasher: hasher,
		logger: logger,
		clock:  clock,
		idgen:  idgen,
	}
}

// moveFile moves a file, falling back to copy-and-remove when rename
// fails (for example across filesystems).
func moveFile(source, target string) error {
	if err := os.Rename(source, target); err == nil {
		return nil
	}

	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating target: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(target)
		return fmt.Errorf("copying to target: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(target)
		return fmt.Errorf("closing target: %w", err)
	}

	if err := os.Remove(source); err != nil {
		return fmt.Errorf("removing source after copy: %w", err)
	}
	return nil
}
