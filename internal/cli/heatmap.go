package cli

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/xolan/tomato/internal/heatmap"
	"github.com/xolan/tomato/internal/record"
)

// HeatmapLevels is the number of shades, the empty level included.
const HeatmapLevels = 5

var heatmapGlyphs = [HeatmapLevels]string{"·", "░", "▒", "▓", "█"}

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// HeatmapPalette colors each level, lowest first.
type HeatmapPalette [HeatmapLevels]lipgloss.TerminalColor

// DefaultPalette is a green ramp for 256-color terminals.
var DefaultPalette = HeatmapPalette{
	lipgloss.Color("240"),
	lipgloss.Color("22"),
	lipgloss.Color("28"),
	lipgloss.Color("34"),
	lipgloss.Color("46"),
}

// RenderHeatmap draws cells as a grid with one row per weekday (Sunday
// first) and one column per week, headed by month labels. Each level has its
// own glyph so the grid reads without color.
func RenderHeatmap(cells []heatmap.Cell, palette HeatmapPalette) string {
	if len(cells) == 0 {
		return ""
	}

	cols, weeks := heatmapColumns(cells)
	peak := heatmap.MaxMinutes(cells)

	styles := make([]lipgloss.Style, HeatmapLevels)
	for i, color := range palette {
		styles[i] = lipgloss.NewStyle()
		if color != nil {
			styles[i] = styles[i].Foreground(color)
		}
	}

	grid := make([][]string, 7)
	for d := range grid {
		grid[d] = make([]string, weeks)
		for w := range grid[d] {
			grid[d][w] = " "
		}
	}
	for i, c := range cells {
		lvl := heatmap.Level(c, peak, HeatmapLevels)
		grid[c.Weekday][cols[i]] = styles[lvl].Render(heatmapGlyphs[lvl])
	}

	var b strings.Builder
	b.WriteString("    ")
	b.WriteString(monthHeader(cells, cols, weeks))
	b.WriteString("\n")
	for d, row := range grid {
		b.WriteString(weekdayLabels[d])
		b.WriteString(" ")
		b.WriteString(strings.Join(row, " "))
		b.WriteString("\n")
	}

	b.WriteString("    Less ")
	for i, glyph := range heatmapGlyphs {
		b.WriteString(styles[i].Render(glyph))
		b.WriteString(" ")
	}
	b.WriteString("More")

	return b.String()
}

// heatmapColumns places consecutive cells into calendar weeks running Sunday
// to Saturday, so each column reads top to bottom in date order. The first
// and last columns may be partial. It returns the column of each cell and
// the column count.
func heatmapColumns(cells []heatmap.Cell) ([]int, int) {
	offset := cells[0].Weekday
	cols := make([]int, len(cells))
	for i := range cells {
		cols[i] = (i + offset) / 7
	}
	return cols, cols[len(cols)-1] + 1
}

// monthHeader labels each column in which a new month starts.
// Labels that would overlap the previous one are skipped.
func monthHeader(cells []heatmap.Cell, cols []int, weeks int) string {
	header := []rune(strings.Repeat(" ", weeks*2))
	next := 0
	lastMonth := time.Month(0)

	for i, c := range cells {
		day, err := time.Parse(record.DateLayout, c.Date)
		if err != nil || day.Month() == lastMonth {
			continue
		}
		lastMonth = day.Month()

		pos := cols[i] * 2
		label := []rune(day.Format("Jan"))
		if pos < next || pos+len(label) > len(header) {
			continue
		}
		copy(header[pos:], label)
		next = pos + len(label) + 1
	}

	return strings.TrimRight(string(header), " ")
}
