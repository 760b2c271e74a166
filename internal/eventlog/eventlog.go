// Package eventlog appends session lifecycle events to a JSON Lines file.
package eventlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xolan/tomato/internal/session"
)

// FileName is the log file inside the app directory.
const FileName = "events.jsonl"

// Entry is one line of the log.
type Entry struct {
	Time      time.Time `json:"time"`
	Event     string    `json:"event"`
	Remaining int       `json:"remaining,omitempty"` // seconds
	Total     int       `json:"total,omitempty"`     // seconds
	Discarded int       `json:"discarded,omitempty"` // seconds, for stops
	Duration  int       `json:"duration,omitempty"`  // minutes, for completions
	Date      string    `json:"date,omitempty"`
	RecordID  string    `json:"record,omitempty"`
}

// Logger writes append-only JSONL entries. It implements session.Observer;
// ticks are not logged.
type Logger struct {
	path string
	mu   sync.Mutex

	// warn receives the first write failure; later failures are dropped.
	warn   io.Writer
	warned bool
}

// New creates a Logger writing to path. The parent directory is created.
// Write failures are reported once to warn, which may be nil.
func New(path string, warn io.Writer) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return &Logger{path: path, warn: warn}, nil
}

// Path returns the log file.
func (l *Logger) Path() string {
	return l.path
}

// Observe logs every non-tick event.
func (l *Logger) Observe(e session.Event) {
	if e.Kind == session.EventTick {
		return
	}

	entry := Entry{
		Time:      e.At,
		Event:     e.Kind.String(),
		Remaining: e.Snapshot.Remaining,
		Total:     e.Snapshot.Total,
		Discarded: e.Discarded,
	}
	if e.Record != nil {
		entry.Duration = e.Record.Duration
		entry.Date = e.Record.Date
		entry.RecordID = e.Record.ID
	}

	if err := l.Append(entry); err != nil {
		l.mu.Lock()
		defer l.mu.Unlock()
		if !l.warned && l.warn != nil {
			_, _ = fmt.Fprintf(l.warn, "Warning: event log disabled: %v\n", err)
		}
		l.warned = true
	}
}

// Append writes entry as one JSON line. A zero Time is set to now.
func (l *Logger) Append(entry Entry) error {
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal log entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write log entry: %w", err)
	}
	return nil
}

// ReadAll parses every entry. A missing file is an empty log.
func (l *Logger) ReadAll() ([]Entry, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries := []Entry{}
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("parse log line %d: %w", lineNum, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	return entries, nil
}
