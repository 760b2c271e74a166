package stats

import (
	"math"
	"sort"
	"time"

	"github.com/xolan/tomato/internal/record"
)

// Statistics contains aggregated statistics for a set of records
type Statistics struct {
	TotalSessions    int
	TotalMinutes     int
	AverageMinutes   int // per session, rounded
	DaysWithSessions int
	CurrentStreak    int // consecutive days with sessions ending today or yesterday
	LongestStreak    int
}

// WeekdayBreakdown contains totals for one day of the week
type WeekdayBreakdown struct {
	Weekday      time.Weekday
	TotalMinutes int
	SessionCount int
}

// CalculateStatistics computes all-time statistics. today anchors the
// current streak.
func CalculateStatistics(records []record.Record, today time.Time) Statistics {
	stats := Statistics{}

	if len(records) == 0 {
		return stats
	}

	days := make(map[string]bool)
	for _, r := range records {
		stats.TotalSessions++
		stats.TotalMinutes += r.Duration
		days[r.Date] = true
	}

	stats.DaysWithSessions = len(days)
	stats.AverageMinutes = int(math.Round(float64(stats.TotalMinutes) / float64(stats.TotalSessions)))
	stats.CurrentStreak, stats.LongestStreak = streaks(days, today)

	return stats
}

// CalculateRange computes statistics for records whose date key falls in
// [from, to], both inclusive.
func CalculateRange(records []record.Record, from, to time.Time) Statistics {
	lo, hi := record.DateKey(from), record.DateKey(to)

	var inRange []record.Record
	for _, r := range records {
		// Date keys sort chronologically.
		if r.Date >= lo && r.Date <= hi {
			inRange = append(inRange, r)
		}
	}
	return CalculateStatistics(inRange, to)
}

// CalculateWeekdayBreakdown totals records per weekday, sorted by total
// minutes descending. Weekdays without sessions are omitted.
func CalculateWeekdayBreakdown(records []record.Record) []WeekdayBreakdown {
	if len(records) == 0 {
		return []WeekdayBreakdown{}
	}

	byDay := make(map[time.Weekday]*WeekdayBreakdown)
	for _, r := range records {
		day, err := time.Parse(record.DateLayout, r.Date)
		if err != nil {
			continue
		}
		wd := day.Weekday()
		if _, exists := byDay[wd]; !exists {
			byDay[wd] = &WeekdayBreakdown{Weekday: wd}
		}
		byDay[wd].TotalMinutes += r.Duration
		byDay[wd].SessionCount++
	}

	breakdowns := make([]WeekdayBreakdown, 0, len(byDay))
	for _, b := range byDay {
		breakdowns = append(breakdowns, *b)
	}

	sort.Slice(breakdowns, func(i, j int) bool {
		if breakdowns[i].TotalMinutes != breakdowns[j].TotalMinutes {
			return breakdowns[i].TotalMinutes > breakdowns[j].TotalMinutes
		}
		return breakdowns[i].Weekday < breakdowns[j].Weekday
	})

	return breakdowns
}

// streaks returns the current and longest runs of consecutive days present
// in days. The current streak may end yesterday so it survives until the
// first session of today.
func streaks(days map[string]bool, today time.Time) (current, longest int) {
	keys := make([]string, 0, len(days))
	for k := range days {
		if _, err := time.Parse(record.DateLayout, k); err == nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	run := 0
	var prev time.Time
	for _, k := range keys {
		day, _ := time.Parse(record.DateLayout, k)
		if run > 0 && day.Equal(prev.AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = day
	}

	anchor := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if !days[record.DateKey(anchor)] {
		anchor = anchor.AddDate(0, 0, -1)
	}
	for days[record.DateKey(anchor)] {
		current++
		anchor = anchor.AddDate(0, 0, -1)
	}

	return current, longest
}
