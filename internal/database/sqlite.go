package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tidy-go/internal/database/migrations"
	"tidy-go/internal/model"
	"tidy-go/internal/organizer"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const fileColumns = `id, original_path, new_path, file_name, file_size, file_type,
	created_at, modified_at, content_digest, operation_date, operation_id`

// SQLiteStore implements the organizer.Store interface using SQLite.
type SQLiteStore struct {
	db    *sql.DB
	clock organizer.Clock
	path  string
}

// NewSQLiteStore opens (or creates) a SQLite store at path and brings
// its schema to the latest version. path can be a file path or
// ":memory:" for an in-memory store. A nil clock defaults to the system
// clock.
func NewSQLiteStore(path string, clock organizer.Clock) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating store at %s: %w", path, err)
	}

	if clock == nil {
		clock = organizer.RealClock{}
	}

	return &SQLiteStore{
		db:    db,
		clock: clock,
		path:  path,
	}, nil
}

// OpenConnection opens and configures a SQLite database connection with
// appropriate PRAGMAs. This is exported for tools and tests that need a
// properly configured SQLite connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// An in-memory database exists per connection; a second pooled
	// connection would see an empty schema.
	db.SetMaxOpenConns(1)

	return db, nil
}

// Insert records a moved file, stamping its operation date, and returns
// the assigned record ID.
func (s *SQLiteStore) Insert(rec *model.FileRecord) (int64, error) {
	rec.OperationDate = s.clock.Now()

	result, err := s.db.Exec(`
		INSERT INTO files (original_path, new_path, file_name, file_size, file_type,
			created_at, modified_at, content_digest, operation_date, operation_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.OriginalPath, rec.NewPath, rec.FileName, rec.FileSize, rec.FileType,
		rec.CreatedAt, rec.ModifiedAt, rec.ContentDigest, rec.OperationDate, rec.OperationID,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting file record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted record id: %w", err)
	}
	rec.ID = id

	return id, nil
}

// FindByDigest returns the most recently recorded file with the given
// content digest, or nil if none exists.
func (s *SQLiteStore) FindByDigest(digest string) (*model.FileRecord, error) {
	row := s.db.QueryRow(`
		SELECT `+fileColumns+`
		FROM files
		WHERE content_digest = ?
		ORDER BY operation_date DESC, id DESC
		LIMIT 1`, digest)

	rec, err := scanFileRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding file by digest: %w", err)
	}
	return rec, nil
}

// DuplicateGroups returns every content digest recorded more than once,
// with each group's records ordered oldest first.
func (s *SQLiteStore) DuplicateGroups() ([]*model.DuplicateGroup, error) {
	rows, err := s.db.Query(`
		SELECT content_digest
		FROM files
		GROUP BY content_digest
		HAVING COUNT(*) > 1
		ORDER BY content_digest`)
	if err != nil {
		return nil, fmt.Errorf("finding duplicate digests: %w", err)
	}
	defer rows.Close()

	var digests []string
	for rows.Next() {
		var digest string
		if err := rows.Scan(&digest); err != nil {
			return nil, fmt.Errorf("scanning duplicate digest: %w", err)
		}
		digests = append(digests, digest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading duplicate digests: %w", err)
	}

	var groups []*model.DuplicateGroup
	for _, digest := range digests {
		records, err := s.findAllByDigest(digest)
		if err != nil {
			return nil, err
		}
		groups = append(groups, &model.DuplicateGroup{
			Digest:  digest,
			Records: records,
		})
	}
	return groups, nil
}

func (s *SQLiteStore) findAllByDigest(digest string) ([]*model.FileRecord, error) {
	rows, err := s.db.Query(`
		SELECT `+fileColumns+`
		FROM files
		WHERE content_digest = ?
		ORDER BY operation_date ASC, id ASC`, digest)
	if err != nil {
		return nil, fmt.Errorf("finding files by digest: %w", err)
	}
	defer rows.Close()

	return scanFileRecords(rows)
}

// FindByOperation returns all records of one operation, oldest first.
func (s *SQLiteStore) FindByOperation(operationID string) ([]*model.FileRecord, error) {
	rows, err := s.db.Query(`
		SELECT `+fileColumns+`
		FROM files
		WHERE operation_id = ?
		ORDER BY operation_date ASC, id ASC`, operationID)
	if err != nil {
		return nil, fmt.Errorf("finding files by operation: %w", err)
	}
	defer rows.Close()

	return scanFileRecords(rows)
}

// LastOperationID returns the ID of the most recent operation, or ""
// when the store is empty.
func (s *SQLiteStore) LastOperationID() (string, error) {
	var operationID string
	err := s.db.QueryRow(`
		SELECT operation_id
		FROM files
		ORDER BY operation_date DESC, id DESC
		LIMIT 1`).Scan(&operationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("finding last operation: %w", err)
	}
	return operationID, nil
}

// DeleteByIDs removes the records with the given IDs in one statement.
// An empty slice is a no-op.
func (s *SQLiteStore) DeleteByIDs(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	_, err := s.db.Exec("DELETE FROM files WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("deleting file records: %w", err)
	}
	return nil
}

// ListAll returns every record in the store, oldest first.
func (s *SQLiteStore) ListAll() ([]*model.FileRecord, error) {
	rows, err := s.db.Query(`
		SELECT ` + fileColumns + `
		FROM files
		ORDER BY operation_date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing file records: %w", err)
	}
	defer rows.Close()

	return scanFileRecords(rows)
}

// Stats returns aggregate counts over the whole store.
func (s *SQLiteStore) Stats() (*model.StoreStats, error) {
	stats := &model.StoreStats{
		FilesByType: make(map[string]int64),
	}

	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(file_size), 0), COUNT(DISTINCT operation_id)
		FROM files`).Scan(&stats.TotalFiles, &stats.TotalSizeBytes, &stats.TotalOperations)
	if err != nil {
		return nil, fmt.Errorf("reading store totals: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT file_type, COUNT(*)
		FROM files
		GROUP BY file_type`)
	if err != nil {
		return nil, fmt.Errorf("reading per-type counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fileType string
		var count int64
		if err := rows.Scan(&fileType, &count); err != nil {
			return nil, fmt.Errorf("scanning per-type count: %w", err)
		}
		stats.FilesByType[fileType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading per-type counts: %w", err)
	}

	return stats, nil
}

// Operations returns summaries of the most recent operations, newest
// first. limit <= 0 means no limit.
func (s *SQLiteStore) Operations(limit int) ([]*model.OperationSummary, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded
	}

	rows, err := s.db.Query(`
		SELECT operation_id, COUNT(*), COALESCE(SUM(file_size), 0), MIN(operation_date)
		FROM files
		GROUP BY operation_id
		ORDER BY MIN(operation_date) DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var summaries []*model.OperationSummary
	for rows.Next() {
		var summary model.OperationSummary
		// MIN() strips the column's declared type, so the driver hands the
		// timestamp back as text.
		var startedAt string
		if err := rows.Scan(&summary.OperationID, &summary.FileCount, &summary.TotalSize, &startedAt); err != nil {
			return nil, fmt.Errorf("scanning operation summary: %w", err)
		}
		summary.StartedAt, err = parseTimestamp(startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing operation timestamp: %w", err)
		}
		summaries = append(summaries, &summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading operation summaries: %w", err)
	}

	return summaries, nil
}

// Path returns the store file path (or ":memory:" for in-memory stores).
func (s *SQLiteStore) Path() string {
	return s.path
}

// CheckMigrations verifies the store schema is up-to-date.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// sqliteTimestampFormats are the layouts the driver uses when storing
// time.Time values, most precise first.
var sqliteTimestampFormats = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range sqliteTimestampFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFileRecord(row rowScanner) (*model.FileRecord, error) {
	var rec model.FileRecord
	err := row.Scan(
		&rec.ID, &rec.OriginalPath, &rec.NewPath, &rec.FileName, &rec.FileSize,
		&rec.FileType, &rec.CreatedAt, &rec.ModifiedAt, &rec.ContentDigest,
		&rec.OperationDate, &rec.OperationID,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanFileRecords(rows *sql.Rows) ([]*model.FileRecord, error) {
	var records []*model.FileRecord
	for rows.Next() {
		rec, err := scanFileRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning file record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading file records: %w", err)
	}
	return records, nil
}

// Compile-time check that SQLiteStore implements organizer.Store
var _ organizer.Store = (*SQLiteStore)(nil)
