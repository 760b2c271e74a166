package service

import (
	"fmt"
	"time"

	"github.com/xolan/tomato/internal/filter"
	"github.com/xolan/tomato/internal/heatmap"
	"github.com/xolan/tomato/internal/record"
	"github.com/xolan/tomato/internal/session"
	"github.com/xolan/tomato/internal/stats"
	"github.com/xolan/tomato/internal/storage"
)

// HistoryService reads completed sessions and aggregates them.
type HistoryService struct {
	store    storage.Store
	sessions *SessionService
	clock    session.Clock
	backend  string
	window   int
}

// NewHistoryService creates a HistoryService. sessions may be nil; when set,
// records it could not save are merged into every load.
func NewHistoryService(store storage.Store, sessions *SessionService, clock session.Clock, backend string, windowDays int) *HistoryService {
	if clock == nil {
		clock = session.SystemClock{}
	}
	if !heatmap.IsSupportedWindow(windowDays) {
		windowDays = heatmap.DefaultWindow
	}
	return &HistoryService{
		store:    store,
		sessions: sessions,
		clock:    clock,
		backend:  backend,
		window:   windowDays,
	}
}

// DefaultWindow returns the configured heatmap window.
func (s *HistoryService) DefaultWindow() int {
	return s.window
}

// Now returns the current time in the configured timezone.
func (s *HistoryService) Now() time.Time {
	return s.clock.Now()
}

// StoragePath returns the store's backing file.
func (s *HistoryService) StoragePath() string {
	return s.store.Path()
}

// Load returns every record. It never fails: an unreadable store is reported
// in LoadErr and treated as empty.
func (s *HistoryService) Load() HistoryResult {
	result := HistoryResult{
		Records:  []record.Record{},
		Warnings: []storage.ParseWarning{},
	}

	loaded, err := s.store.Load()
	if err != nil {
		result.LoadErr = fmt.Errorf("failed to read records from %s: %w", s.store.Path(), err)
	} else {
		result.Records = loaded.Records
		result.Warnings = loaded.Warnings
	}

	if s.sessions != nil {
		unsaved := s.sessions.Unsaved()
		result.Unsaved = len(unsaved)
		result.Records = append(result.Records, unsaved...)
	}

	return result
}

// Heatmap aggregates windowDays days ending today.
func (s *HistoryService) Heatmap(windowDays int) ([]heatmap.Cell, HistoryResult) {
	result := s.Load()
	return heatmap.Aggregate(result.Records, windowDays, s.clock.Now()), result
}

// Summary builds the full history view for windowDays (0 uses the default)
// with the recentCount newest records.
func (s *HistoryService) Summary(windowDays, recentCount int) HistorySummary {
	if windowDays == 0 {
		windowDays = s.window
	}
	today := s.clock.Now()
	result := s.Load()

	cells := heatmap.Aggregate(result.Records, windowDays, today)

	summary := HistorySummary{
		HistoryResult: result,
		Today:         today,
		WindowDays:    windowDays,
		Cells:         cells,
		Peak:          heatmap.MaxMinutes(cells),
		AllTime:       stats.CalculateStatistics(result.Records, today),
		Weekdays:      stats.CalculateWeekdayBreakdown(result.Records),
		Recent:        filter.Recent(result.Records, recentCount),
	}
	if windowDays > 0 {
		summary.Window = stats.CalculateRange(result.Records, today.AddDate(0, 0, -(windowDays-1)), today)
	}
	return summary
}

// Today returns statistics for the current calendar day.
func (s *HistoryService) Today() (stats.Statistics, HistoryResult) {
	now := s.clock.Now()
	result := s.Load()
	return stats.CalculateRange(result.Records, now, now), result
}

// Filter returns the records matching f.
func (s *HistoryService) Filter(f *filter.Filter) ([]record.Record, HistoryResult) {
	result := s.Load()
	return filter.FilterRecords(result.Records, f), result
}

// Validate reports store health.
func (s *HistoryService) Validate() (storage.Health, error) {
	return storage.Validate(s.store)
}

// Backups lists the JSON store's backups.
func (s *HistoryService) Backups() ([]storage.BackupInfo, error) {
	if err := s.requireJSON(); err != nil {
		return nil, err
	}
	return storage.ListBackups(s.store.Path())
}

// Restore replaces the JSON store with backup n.
func (s *HistoryService) Restore(n int) error {
	if err := s.requireJSON(); err != nil {
		return err
	}
	return storage.RestoreBackup(s.store.Path(), n)
}

func (s *HistoryService) requireJSON() error {
	if s.backend != storage.BackendJSON && s.backend != "" {
		return fmt.Errorf("%w: backups exist only for the %q backend", ErrUnsupported, storage.BackendJSON)
	}
	return nil
}
