// Package heatmap projects completed session records onto a fixed window of
// calendar days ending today.
package heatmap

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xolan/tomato/internal/record"
)

// Supported window sizes.
const (
	Window35  = 35
	Window90  = 90
	Window365 = 365

	DefaultWindow = Window35
)

// Windows lists the supported window sizes, smallest first.
var Windows = []int{Window35, Window90, Window365}

// Cell aggregates one calendar day.
type Cell struct {
	Date    string `json:"date"`
	Weekday int    `json:"weekday"` // 0=Sunday..6=Saturday
	Week    int    `json:"week"`    // index from the window's first day
	Count   int    `json:"count"`
	Minutes int    `json:"minutes"`
}

// IsSupportedWindow reports whether days is one of Windows.
func IsSupportedWindow(days int) bool {
	for _, w := range Windows {
		if w == days {
			return true
		}
	}
	return false
}

// ParseWindow parses a window size such as "90" or "90d".
func ParseWindow(s string) (int, error) {
	trimmed := s
	if n := len(trimmed); n > 0 && (trimmed[n-1] == 'd' || trimmed[n-1] == 'D') {
		trimmed = trimmed[:n-1]
	}
	days, err := strconv.Atoi(trimmed)
	if err != nil || !IsSupportedWindow(days) {
		return 0, fmt.Errorf("invalid window %q: must be one of %v", s, Windows)
	}
	return days, nil
}

// Aggregate builds windowDays cells for the consecutive dates ending at today
// (inclusive), oldest first, and folds records into them by date key.
// Records outside the window are ignored.
func Aggregate(records []record.Record, windowDays int, today time.Time) []Cell {
	if windowDays <= 0 {
		return []Cell{}
	}

	last := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	first := last.AddDate(0, 0, -(windowDays - 1))

	cells := make([]Cell, windowDays)
	index := make(map[string]int, windowDays)
	for i := 0; i < windowDays; i++ {
		day := first.AddDate(0, 0, i)
		key := record.DateKey(day)
		cells[i] = Cell{
			Date:    key,
			Weekday: int(day.Weekday()),
			Week:    i / 7,
		}
		index[key] = i
	}

	for _, r := range records {
		i, ok := index[r.Date]
		if !ok {
			continue
		}
		cells[i].Count++
		cells[i].Minutes += r.Duration
	}

	return cells
}

// MaxMinutes returns the largest Minutes value among cells, or 0.
func MaxMinutes(cells []Cell) int {
	peak := 0
	for _, c := range cells {
		if c.Minutes > peak {
			peak = c.Minutes
		}
	}
	return peak
}

// Weeks returns the number of week columns spanned by cells.
func Weeks(cells []Cell) int {
	if len(cells) == 0 {
		return 0
	}
	return cells[len(cells)-1].Week + 1
}

// Intensity is c.Minutes relative to peak, in [0,1]. Zero-minute cells are 0.
func Intensity(c Cell, peak int) float64 {
	if c.Minutes <= 0 || peak <= 0 {
		return 0
	}
	v := float64(c.Minutes) / float64(peak)
	if v > 1 {
		return 1
	}
	return v
}

// Level buckets a cell into 0..levels-1 for rendering. Level 0 is reserved
// for zero-minute cells; active cells start at 1.
func Level(c Cell, peak, levels int) int {
	if levels < 2 || c.Minutes <= 0 || peak <= 0 {
		return 0
	}
	i := Intensity(c, peak)
	lvl := 1 + int(i*float64(levels-2)+0.5)
	if lvl > levels-1 {
		lvl = levels - 1
	}
	return lvl
}
