package model

import "time"

// FileRecord is one row in the files table: a single tracked file move.
// OriginalPath and NewPath are absolute and reflect the state before and
// after the move that produced the record.
type FileRecord struct {
	ID            int64     // assigned by the store on insert
	OriginalPath  string    // absolute path before the move
	NewPath       string    // absolute path after the move
	FileName      string    // base name at time of move
	FileSize      int64     // bytes
	FileType      string    // category bucket (see internal/category)
	CreatedAt     time.Time // filesystem creation time at move time
	ModifiedAt    time.Time // filesystem modification time at move time
	ContentDigest string    // hex SHA-256 of the file contents
	OperationDate time.Time // when the record was inserted, not when the file was created
	OperationID   string    // shared by every record of one organize run
}

// DuplicateGroup is a set of two or more records sharing a content digest,
// ordered by operation date ascending (earliest tracked copy first).
type DuplicateGroup struct {
	Digest  string
	Records []*FileRecord
}

// WastedBytes is the total size of every copy beyond the first.
func (g *DuplicateGroup) WastedBytes() int64 {
	var total int64
	for i, r := range g.Records {
		if i == 0 {
			continue
		}
		total += r.FileSize
	}
	return total
}

// StoreStats is an aggregate view over all tracked records.
type StoreStats struct {
	TotalFiles      int64
	TotalSizeBytes  int64
	FilesByType     map[string]int64
	TotalOperations int64 // distinct operation IDs
}

// OperationSummary is a per-operation rollup used by history and reporting.
type OperationSummary struct {
	OperationID string
	FileCount   int64
	TotalSize   int64
	StartedAt   time.Time // earliest operation_date within the run
}
