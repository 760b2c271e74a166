package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/xolan/tomato/internal/record"
)

// JSONStore keeps records as an indented JSON array in a single file.
// The file is created on first append.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store backed by path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the backing file.
func (s *JSONStore) Path() string {
	return s.path
}

// Close is a no-op; the file is not held open.
func (s *JSONStore) Close() error {
	return nil
}

// Load reads all records. A missing or empty file is an empty store.
// Elements that fail to decode are skipped and reported as warnings.
// A file that is not a JSON array is an error.
func (s *JSONStore) Load() (LoadResult, error) {
	result := emptyResult()

	items, err := s.readRaw()
	if err != nil {
		return result, err
	}

	for i, item := range items {
		var r record.Record
		if err := json.Unmarshal(item, &r); err != nil {
			result.Warnings = append(result.Warnings, ParseWarning{
				Index:   i + 1,
				Content: string(item),
				Error:   err.Error(),
			})
			continue
		}
		result.Records = append(result.Records, r)
	}

	return result, nil
}

// Append adds r to the end of the array. The previous file is rotated into
// the backups and the new content is written atomically. Elements that could
// not be decoded are kept as they were.
func (s *JSONStore) Append(r record.Record) error {
	items, err := s.readRaw()
	if err != nil {
		return err
	}

	line, err := json.Marshal(r)
	if err != nil {
		return err
	}
	items = append(items, line)

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}

	if err := CreateBackup(s.path); err != nil {
		return fmt.Errorf("backup %s: %w", s.path, err)
	}

	return writeFileAtomic(s.path, data)
}

// readRaw returns the undecoded array elements.
func (s *JSONStore) readRaw() ([]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []json.RawMessage{}, nil
		}
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []json.RawMessage{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if items == nil {
		// "null"
		items = []json.RawMessage{}
	}
	return items, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		_ = os.Remove(tmpFile)
		return err
	}
	return os.Rename(tmpFile, path)
}
