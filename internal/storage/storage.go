// Package storage persists completed session records. Two backends are
// provided: a JSON array file (the default, compatible with older record
// files) and a SQLite database.
package storage

import (
	"fmt"

	"github.com/xolan/tomato/internal/osutil"
	"github.com/xolan/tomato/internal/record"
)

const (
	// BackendJSON stores records as a JSON array in RecordsFile.
	BackendJSON = "json"
	// BackendSQLite stores records in a SQLite database in DatabaseFile.
	BackendSQLite = "sqlite"

	// RecordsFile is the JSON store's file name
	RecordsFile = "records.json"
	// DatabaseFile is the SQLite store's file name
	DatabaseFile = "records.db"
)

// Store is an append-only record store.
type Store interface {
	// Append persists one record.
	Append(r record.Record) error
	// Load returns every readable record in insertion order. Records that
	// cannot be decoded are reported as warnings rather than failing the load.
	Load() (LoadResult, error)
	// Path is the backing file.
	Path() string
	Close() error
}

// ParseWarning describes a stored record that could not be decoded.
type ParseWarning struct {
	Index   int    // 1-based position in the file or row sequence
	Content string // raw stored content
	Error   string
}

// LoadResult holds the decoded records and warnings about skipped ones.
type LoadResult struct {
	Records  []record.Record
	Warnings []ParseWarning
}

func emptyResult() LoadResult {
	return LoadResult{
		Records:  []record.Record{},
		Warnings: []ParseWarning{},
	}
}

// IsValidBackend reports whether name is a known backend.
func IsValidBackend(name string) bool {
	return name == BackendJSON || name == BackendSQLite
}

// DefaultPath returns the per-user path of the backend's file,
// creating the app directory if needed.
func DefaultPath(backend string) (string, error) {
	switch backend {
	case BackendJSON, "":
		return osutil.AppFile(RecordsFile)
	case BackendSQLite:
		return osutil.AppFile(DatabaseFile)
	}
	return "", fmt.Errorf("unknown storage backend %q", backend)
}

// Open opens the store for backend at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONStore(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}
