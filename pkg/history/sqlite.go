package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/adwikataware/Hackcrypt/pkg/schema"
	"github.com/adwikataware/Hackcrypt/pkg/types"
)

// SQLiteStore persists history in a local sqlite database so scan results
// survive across runs without a backend. Records are stored as JSON blobs
// keyed by content hash; the authenticity verdict is re-derived on read
// since it never serializes.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS scans (
	content_hash   TEXT PRIMARY KEY,
	scan_timestamp REAL NOT NULL,
	record         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scans_timestamp ON scans (scan_timestamp DESC);
`

// NewSQLiteStore opens (and if needed creates) the history database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Put(ctx context.Context, record *types.ScanRecord) error {
	blob, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode scan record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scans (content_hash, scan_timestamp, record)
		VALUES (?, ?, ?)
		ON CONFLICT (content_hash) DO UPDATE SET
			scan_timestamp = excluded.scan_timestamp,
			record = excluded.record`,
		record.ContentHash, record.ScanTimestamp, string(blob))
	if err != nil {
		return fmt.Errorf("failed to store scan record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, contentHash string) (*types.ScanRecord, bool, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM scans WHERE content_hash = ?`, contentHash).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load scan record: %w", err)
	}

	record, err := decodeStoredRecord(blob)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// decodeStoredRecord restores a record persisted by Put. Stored blobs are
// already normalized, so they decode verbatim; only the authenticity
// verdict is re-derived because it never serializes.
func decodeStoredRecord(blob string) (*types.ScanRecord, error) {
	var record types.ScanRecord
	if err := json.Unmarshal([]byte(blob), &record); err != nil {
		return nil, fmt.Errorf("failed to decode scan record: %w", err)
	}
	record.Authenticity = schema.DeriveAuthenticity(record.IsFake, record.Verdict, record.ThreatLevel)
	return &record, nil
}

func (s *SQLiteStore) GetAll(ctx context.Context) ([]*types.ScanRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM scans ORDER BY scan_timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan records: %w", err)
	}
	defer rows.Close()

	var records []*types.ScanRecord
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("failed to read scan row: %w", err)
		}

		record, err := decodeStoredRecord(blob)
		if err != nil {
			continue
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, contentHash string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM scans WHERE content_hash = ?`, contentHash)
	if err != nil {
		return fmt.Errorf("failed to delete scan record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM scans`)
	if err != nil {
		return fmt.Errorf("failed to clear scan history: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (*types.Stats, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeStats(records), nil
}
