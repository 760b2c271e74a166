// Package cli provides the presentation helpers shared by the tomato
// commands and the TUI.
package cli

import (
	"fmt"
	"time"

	"github.com/xolan/tomato/internal/record"
	"github.com/xolan/tomato/internal/session"
	"github.com/xolan/tomato/internal/storage"
)

// Status line texts.
const (
	IdleStatus     = "🍅 Start Pomodoro"
	CompleteStatus = "🍅 Time's Up!"
)

// FormatDuration formats minutes as a human-readable string
// Examples: "30m", "2h", "1h 30m"
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// FormatClock formats seconds as MM:SS. Minutes are not capped at 59.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// StatusLine renders a snapshot the way the status bar shows it.
func StatusLine(s session.Snapshot) string {
	switch s.Phase {
	case session.Running:
		return "🍅 " + FormatClock(s.Remaining)
	case session.Paused:
		return "⏸ " + FormatClock(s.Remaining)
	case session.Completed:
		return CompleteStatus
	}
	return IdleStatus
}

// FormatRecord formats a record as "2024-03-08  09:00-09:25  25m".
func FormatRecord(r record.Record) string {
	return fmt.Sprintf("%s  %s-%s  %s",
		r.Date,
		r.StartTime.Format("15:04"),
		r.EndTime.Format("15:04"),
		FormatDuration(r.Duration))
}

// FormatDateRangeForDisplay formats a date range for human-readable display.
func FormatDateRangeForDisplay(start, end time.Time) string {
	if record.DateKey(start) == record.DateKey(end) {
		return start.Format("Mon, Jan 2, 2006")
	}
	if start.Year() == end.Year() {
		return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
}

// FormatCorruptionWarning formats a ParseWarning into a human-readable string
func FormatCorruptionWarning(warning storage.ParseWarning) string {
	content := warning.Content
	if runes := []rune(content); len(runes) > 50 {
		content = string(runes[:47]) + "..."
	}
	return fmt.Sprintf("  Record %d: %s (error: %s)", warning.Index, content, warning.Error)
}

// Pluralize returns the singular or plural form of a word based on count
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
