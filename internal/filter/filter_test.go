package filter

import (
	"testing"
	"time"

	"github.com/xolan/tomato/internal/record"
)

// Helper function to create test records
func makeRecord(date string, minutes int) record.Record {
	return record.Record{Date: date, Duration: minutes}
}

func dates(records []record.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Date
	}
	return out
}

// Helper function to compare string slices
func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 13, 0, 0, 0, time.UTC)
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		filter   *Filter
		expected bool
	}{
		{"zero filter", NewFilter(time.Time{}, time.Time{}, 0), true},
		{"from set", NewFilter(day(1), time.Time{}, 0), false},
		{"to set", NewFilter(time.Time{}, day(1), 0), false},
		{"min set", NewFilter(time.Time{}, time.Time{}, 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsEmpty(); got != tt.expected {
				t.Errorf("IsEmpty() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestFilterRecords(t *testing.T) {
	records := []record.Record{
		makeRecord("2024-02-28", 25),
		makeRecord("2024-03-01", 5),
		makeRecord("2024-03-03", 25),
		makeRecord("2024-03-05", 50),
		makeRecord("2024-03-06", 25),
	}

	tests := []struct {
		name     string
		filter   *Filter
		expected []string
	}{
		{
			name:     "empty filter returns all",
			filter:   NewFilter(time.Time{}, time.Time{}, 0),
			expected: []string{"2024-02-28", "2024-03-01", "2024-03-03", "2024-03-05", "2024-03-06"},
		},
		{
			name:     "inclusive date range",
			filter:   NewFilter(day(1), day(5), 0),
			expected: []string{"2024-03-01", "2024-03-03", "2024-03-05"},
		},
		{
			name:     "open start",
			filter:   NewFilter(time.Time{}, day(1), 0),
			expected: []string{"2024-02-28", "2024-03-01"},
		},
		{
			name:     "minimum duration",
			filter:   NewFilter(time.Time{}, time.Time{}, 25),
			expected: []string{"2024-02-28", "2024-03-03", "2024-03-05", "2024-03-06"},
		},
		{
			name:     "combined",
			filter:   NewFilter(day(1), time.Time{}, 30),
			expected: []string{"2024-03-05"},
		},
		{
			name:     "no match",
			filter:   NewFilter(day(20), day(25), 0),
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dates(FilterRecords(records, tt.filter))
			if !equalStringSlices(got, tt.expected) {
				t.Errorf("FilterRecords() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestMatchesDate_UsesBoundLocation(t *testing.T) {
	// 2024-03-05 23:30 in UTC-5 is already the 6th in UTC.
	loc := time.FixedZone("UTC-5", -5*60*60)
	f := NewFilter(time.Date(2024, 3, 5, 23, 30, 0, 0, loc), time.Time{}, 0)

	if !f.MatchesDate(makeRecord("2024-03-05", 1)) {
		t.Error("expected the 5th to match a bound on the 5th local time")
	}
	if f.MatchesDate(makeRecord("2024-03-04", 1)) {
		t.Error("the 4th should not match")
	}
}

func TestRecent(t *testing.T) {
	records := []record.Record{
		makeRecord("2024-03-01", 1),
		makeRecord("2024-03-02", 1),
		makeRecord("2024-03-03", 1),
	}

	tests := []struct {
		n        int
		expected []string
	}{
		{2, []string{"2024-03-03", "2024-03-02"}},
		{0, []string{"2024-03-03", "2024-03-02", "2024-03-01"}},
		{10, []string{"2024-03-03", "2024-03-02", "2024-03-01"}},
	}

	for _, tt := range tests {
		if got := dates(Recent(records, tt.n)); !equalStringSlices(got, tt.expected) {
			t.Errorf("Recent(%d) = %v, expected %v", tt.n, got, tt.expected)
		}
	}

	if got := Recent(nil, 5); len(got) != 0 {
		t.Errorf("Recent(nil) = %v", got)
	}
}
