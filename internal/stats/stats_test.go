package stats

import (
	"testing"
	"time"

	"github.com/xolan/tomato/internal/record"
)

// Helper function to create a record on a date key
func makeRecord(date string, minutes int) record.Record {
	return record.Record{Date: date, Duration: minutes}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.Local)
}

func TestCalculateStatistics_Empty(t *testing.T) {
	stats := CalculateStatistics([]record.Record{}, day(2024, time.March, 10))

	if stats != (Statistics{}) {
		t.Errorf("expected zero statistics, got %+v", stats)
	}
}

func TestCalculateStatistics_Totals(t *testing.T) {
	records := []record.Record{
		makeRecord("2024-03-08", 25),
		makeRecord("2024-03-08", 25),
		makeRecord("2024-03-09", 10),
	}

	stats := CalculateStatistics(records, day(2024, time.March, 20))

	if stats.TotalSessions != 3 {
		t.Errorf("TotalSessions = %d, expected 3", stats.TotalSessions)
	}
	if stats.TotalMinutes != 60 {
		t.Errorf("TotalMinutes = %d, expected 60", stats.TotalMinutes)
	}
	if stats.AverageMinutes != 20 {
		t.Errorf("AverageMinutes = %d, expected 20", stats.AverageMinutes)
	}
	if stats.DaysWithSessions != 2 {
		t.Errorf("DaysWithSessions = %d, expected 2", stats.DaysWithSessions)
	}
}

func TestCalculateStatistics_AverageRounds(t *testing.T) {
	tests := []struct {
		minutes  []int
		expected int
	}{
		{[]int{25, 26}, 26}, // 25.5 rounds up
		{[]int{10, 10, 11}, 10},
		{[]int{0, 1}, 1},
		{[]int{0}, 0},
	}

	for _, tt := range tests {
		var records []record.Record
		for _, m := range tt.minutes {
			records = append(records, makeRecord("2024-03-08", m))
		}
		if got := CalculateStatistics(records, day(2024, time.March, 8)).AverageMinutes; got != tt.expected {
			t.Errorf("AverageMinutes(%v) = %d, expected %d", tt.minutes, got, tt.expected)
		}
	}
}

func TestCalculateStatistics_Streaks(t *testing.T) {
	records := []record.Record{
		makeRecord("2024-02-27", 25),
		makeRecord("2024-02-28", 25),
		makeRecord("2024-02-29", 25),
		makeRecord("2024-03-01", 25),
		makeRecord("2024-03-05", 25),
		makeRecord("2024-03-09", 25),
		makeRecord("2024-03-10", 25),
		makeRecord("2024-03-10", 25),
	}

	tests := []struct {
		name            string
		today           time.Time
		expectedCurrent int
	}{
		{"ends today", day(2024, time.March, 10), 2},
		{"ends yesterday", day(2024, time.March, 11), 2},
		{"broken", day(2024, time.March, 12), 0},
		{"mid history", day(2024, time.March, 1), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := CalculateStatistics(records, tt.today)
			if stats.CurrentStreak != tt.expectedCurrent {
				t.Errorf("CurrentStreak = %d, expected %d", stats.CurrentStreak, tt.expectedCurrent)
			}
			// Leap day included: 02-27..03-01 is four days.
			if stats.LongestStreak != 4 {
				t.Errorf("LongestStreak = %d, expected 4", stats.LongestStreak)
			}
		})
	}
}

func TestCalculateRange(t *testing.T) {
	records := []record.Record{
		makeRecord("2024-03-01", 25),
		makeRecord("2024-03-05", 30),
		makeRecord("2024-03-07", 45),
		makeRecord("2024-03-08", 50),
	}

	stats := CalculateRange(records, day(2024, time.March, 5), day(2024, time.March, 7))

	if stats.TotalSessions != 2 || stats.TotalMinutes != 75 {
		t.Errorf("expected 2 sessions and 75 minutes, got %+v", stats)
	}

	empty := CalculateRange(records, day(2024, time.April, 1), day(2024, time.April, 30))
	if empty.TotalSessions != 0 {
		t.Errorf("expected no sessions in April, got %d", empty.TotalSessions)
	}
}

func TestCalculateWeekdayBreakdown(t *testing.T) {
	records := []record.Record{
		makeRecord("2024-03-04", 25), // Monday
		makeRecord("2024-03-11", 25), // Monday
		makeRecord("2024-03-06", 90), // Wednesday
		makeRecord("2024-03-10", 10), // Sunday
		makeRecord("garbage", 500),
	}

	breakdowns := CalculateWeekdayBreakdown(records)

	if len(breakdowns) != 3 {
		t.Fatalf("expected 3 weekdays, got %d", len(breakdowns))
	}
	expected := []WeekdayBreakdown{
		{time.Wednesday, 90, 1},
		{time.Monday, 50, 2},
		{time.Sunday, 10, 1},
	}
	for i, want := range expected {
		if breakdowns[i] != want {
			t.Errorf("breakdown %d = %+v, expected %+v", i, breakdowns[i], want)
		}
	}
}

func TestCalculateWeekdayBreakdown_Empty(t *testing.T) {
	if got := CalculateWeekdayBreakdown(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}
