// Package record defines the persisted fact describing one completed focus
// session, along with its calendar date key.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the canonical date key layout.
const DateLayout = "2006-01-02"

// Older record files wrote locale-formatted dates and clock times.
var (
	legacyDateLayouts  = []string{"2006/1/2", "2006/01/02"}
	legacyClockLayouts = []string{"15:04:05", "3:04:05 PM", "15:04"}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidTime      = errors.New("invalid time")
	ErrNegativeDuration = errors.New("duration cannot be negative")
)

// Record is one completed focus session. Records are append-only.
type Record struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	Date      string    `json:"date" yaml:"date"`
	StartTime time.Time `json:"startTime" yaml:"startTime"`
	EndTime   time.Time `json:"endTime" yaml:"endTime"`
	Duration  int       `json:"duration" yaml:"duration"`
}

// New builds the record for a session that ran from start to end.
// The date key is taken from start in start's location.
func New(start, end time.Time) Record {
	return Record{
		ID:        uuid.NewString(),
		Date:      DateKey(start),
		StartTime: start,
		EndTime:   end,
		Duration:  DurationMinutes(start, end),
	}
}

// DateKey returns the calendar date key of t in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// DurationMinutes returns whole elapsed minutes between start and end,
// truncated. A session of 59.9 seconds is 0 minutes.
func DurationMinutes(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// ParseDate parses a date key, accepting the canonical layout and the legacy
// slash-separated layout. The result is midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	for _, layout := range legacyDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Validate checks the record invariants.
func (r Record) Validate() error {
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, r.Date)
	}
	if r.Duration < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeDuration, r.Duration)
	}
	return nil
}

// wireRecord mirrors Record with loosely typed timestamps so legacy files
// (clock-only start/end strings) can still be read.
type wireRecord struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  int    `json:"duration"`
}

// UnmarshalJSON decodes a record, normalizing legacy date and time formats.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	day, err := ParseDate(w.Date, time.Local)
	if err != nil {
		return err
	}

	start, err := parseTimestamp(w.StartTime, day)
	if err != nil {
		return fmt.Errorf("startTime: %w", err)
	}
	end, err := parseTimestamp(w.EndTime, day)
	if err != nil {
		return fmt.Errorf("endTime: %w", err)
	}

	decoded := Record{
		ID:        w.ID,
		Date:      day.Format(DateLayout),
		StartTime: start,
		EndTime:   end,
		Duration:  w.Duration,
	}
	if err := decoded.Validate(); err != nil {
		return err
	}

	*r = decoded
	return nil
}

func parseTimestamp(s string, day time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range legacyClockLayouts {
		if clock, err := time.Parse(layout, s); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(),
				clock.Hour(), clock.Minute(), clock.Second(), 0, day.Location()), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}
