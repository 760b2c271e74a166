package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/xolan/tomato/internal/record"
)

// SQLiteStore keeps records in a sessions table. Timestamps are stored as
// RFC 3339 text so they round-trip with their offset.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		date       TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time   TEXT NOT NULL,
		duration   INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Path returns the database file.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append inserts r. Records without an ID are given one.
func (s *SQLiteStore) Append(r record.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	_, err := s.db.Exec(
		"INSERT INTO sessions (id, date, start_time, end_time, duration) VALUES (?, ?, ?, ?, ?)",
		r.ID, r.Date, r.StartTime.Format(time.RFC3339Nano), r.EndTime.Format(time.RFC3339Nano), r.Duration,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Load returns all rows in insertion order. Rows that fail to decode are
// reported as warnings keyed by their sequence number.
func (s *SQLiteStore) Load() (LoadResult, error) {
	result := emptyResult()

	rows, err := s.db.Query("SELECT seq, id, date, start_time, end_time, duration FROM sessions ORDER BY seq")
	if err != nil {
		return result, fmt.Errorf("query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			seq              int
			id, date         string
			startRaw, endRaw string
			duration         int
		)
		if err := rows.Scan(&seq, &id, &date, &startRaw, &endRaw, &duration); err != nil {
			return result, fmt.Errorf("scan session: %w", err)
		}

		r, err := decodeRow(id, date, startRaw, endRaw, duration)
		if err != nil {
			result.Warnings = append(result.Warnings, ParseWarning{
				Index:   seq,
				Content: fmt.Sprintf("%s|%s|%s|%s|%d", id, date, startRaw, endRaw, duration),
				Error:   err.Error(),
			})
			continue
		}
		result.Records = append(result.Records, r)
	}

	return result, rows.Err()
}

func decodeRow(id, date, startRaw, endRaw string, duration int) (record.Record, error) {
	start, err := time.Parse(time.RFC3339Nano, startRaw)
	if err != nil {
		return record.Record{}, fmt.Errorf("start_time: %w", record.ErrInvalidTime)
	}
	end, err := time.Parse(time.RFC3339Nano, endRaw)
	if err != nil {
		return record.Record{}, fmt.Errorf("end_time: %w", record.ErrInvalidTime)
	}

	r := record.Record{
		ID:        id,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Duration:  duration,
	}
	return r, r.Validate()
}
