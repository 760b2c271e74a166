// Package service provides the business logic layer for tomato.
// It wraps the session controller, record storage, heatmap, stats and config
// packages, providing one API for both CLI and TUI frontends.
package service

import (
	"time"

	"github.com/xolan/tomato/internal/heatmap"
	"github.com/xolan/tomato/internal/record"
	"github.com/xolan/tomato/internal/stats"
	"github.com/xolan/tomato/internal/storage"
)

// HistoryResult is the readable history plus anything that went wrong
// reading it. A failed load yields an empty history and LoadErr.
type HistoryResult struct {
	Records  []record.Record
	Warnings []storage.ParseWarning
	LoadErr  error
	// Unsaved counts records held in memory because the store refused them.
	Unsaved int
}

// HistorySummary is everything the history screens show.
type HistorySummary struct {
	HistoryResult
	Today      time.Time
	WindowDays int
	Cells      []heatmap.Cell
	Peak       int              // largest Minutes among Cells
	AllTime    stats.Statistics // over every record
	Window     stats.Statistics // over the heatmap window
	Weekdays   []stats.WeekdayBreakdown
	Recent     []record.Record // newest first
}
