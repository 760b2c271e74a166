package timeutil

import (
	"fmt"
	"time"
)

// ParseDateRangeFlags parses --from/--to/--last flags relative to now, in
// now's location. A zero start means "since the beginning".
// Returns an error if both lastDays and from/to are specified.
func ParseDateRangeFlags(fromStr, toStr string, lastDays int, now time.Time) (start, end time.Time, err error) {
	if lastDays > 0 && (fromStr != "" || toStr != "") {
		return time.Time{}, time.Time{}, fmt.Errorf("cannot use --last with --from or --to")
	}
	if lastDays < 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --last %d: must be positive", lastDays)
	}

	if lastDays > 0 {
		end = EndOfDay(now)
		start = StartOfDay(now.AddDate(0, 0, -(lastDays - 1)))
		return start, end, nil
	}

	loc := now.Location()

	if fromStr != "" {
		start, err = ParseDate(fromStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date: %w", err)
		}
	}

	if toStr != "" {
		toDate, err := ParseDate(toStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date: %w", err)
		}
		end = EndOfDay(toDate)
	} else {
		end = EndOfDay(now)
	}

	if !start.IsZero() && start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("--from date (%s) is after --to date (%s)",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	return start, end, nil
}
