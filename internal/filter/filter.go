package filter

import (
	"time"

	"github.com/xolan/tomato/internal/record"
)

// Filter represents selection criteria for session records.
// All fields are optional - zero values match all records.
type Filter struct {
	From       time.Time // First day included; compared by date key
	To         time.Time // Last day included; compared by date key
	MinMinutes int       // Records shorter than this are excluded
}

// NewFilter creates a new Filter with the given criteria.
func NewFilter(from, to time.Time, minMinutes int) *Filter {
	return &Filter{
		From:       from,
		To:         to,
		MinMinutes: minMinutes,
	}
}

// IsEmpty returns true if the filter matches all records
func (f *Filter) IsEmpty() bool {
	return f.From.IsZero() && f.To.IsZero() && f.MinMinutes <= 0
}

// FilterRecords returns the records matching f, in their original order.
// If the filter is empty, returns all records.
func FilterRecords(records []record.Record, f *Filter) []record.Record {
	if f.IsEmpty() {
		return records
	}

	filtered := make([]record.Record, 0)
	for _, r := range records {
		if f.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// MatchesDate returns true if the record's date key lies within [From, To].
// The bounds are converted to date keys in their own locations.
func (f *Filter) MatchesDate(r record.Record) bool {
	if !f.From.IsZero() && r.Date < record.DateKey(f.From) {
		return false
	}
	if !f.To.IsZero() && r.Date > record.DateKey(f.To) {
		return false
	}
	return true
}

// MatchesDuration returns true if the record lasted at least MinMinutes.
func (f *Filter) MatchesDuration(r record.Record) bool {
	return r.Duration >= f.MinMinutes
}

// Matches returns true if the record satisfies every criterion.
func (f *Filter) Matches(r record.Record) bool {
	return f.MatchesDate(r) && f.MatchesDuration(r)
}

// Recent returns the last n records, newest first. n <= 0 returns all.
func Recent(records []record.Record, n int) []record.Record {
	if n <= 0 || n > len(records) {
		n = len(records)
	}
	out := make([]record.Record, 0, n)
	for i := len(records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, records[i])
	}
	return out
}
