package organizer

import "tidy-go/internal/model"

// Store provides an interface for the tracking store: one table of
// FileRecord rows produced by live organize runs. Single-row lookups
// return nil when nothing matches. Every call is atomic on its own;
// there is no cross-call transaction.
type Store interface {
	// Insert appends one record, stamps its operation date, assigns its
	// identifier, and returns the identifier.
	Insert(rec *model.FileRecord) (int64, error)

	// FindByDigest returns the most recently inserted record with the
	// given content digest, or nil.
	FindByDigest(digest string) (*model.FileRecord, error)

	// DuplicateGroups returns every group of two or more records sharing
	// a content digest. Each group is ordered by operation date ascending.
	DuplicateGroups() ([]*model.DuplicateGroup, error)

	// FindByOperation returns all records of one organize run, ordered by
	// operation date ascending.
	FindByOperation(operationID string) ([]*model.FileRecord, error)

	// LastOperationID returns the operation ID of the most recently
	// inserted record, or "" when the store is empty.
	LastOperationID() (string, error)

	// DeleteByIDs removes the given records. A no-op on empty input.
	DeleteByIDs(ids []int64) error

	// ListAll returns every record ordered by operation date ascending,
	// the replay order the prediction model trains in.
	ListAll() ([]*model.FileRecord, error)

	// Stats returns aggregate counts over all records.
	Stats() (*model.StoreStats, error)

	// Operations returns per-run rollups, newest first, at most limit.
	Operations(limit int) ([]*model.OperationSummary, error)

	// Close closes the underlying storage.
	Close() error
}

// Hasher computes a content digest for a file on disk.
type Hasher interface {
	Hash(path string) (string, error)
}
