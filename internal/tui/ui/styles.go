package ui

import (
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"

	"github.com/xolan/tomato/internal/cli"
)

// Styles contains all the styles used in the TUI
type Styles struct {
	// Base styles
	App lipgloss.Style

	// Tab bar
	TabBar      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	ViewTitle lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusHelp lipgloss.Style

	// Record table
	TableHeader   lipgloss.Style
	TableSelected lipgloss.Style

	// Session
	TimerRunning lipgloss.Style
	TimerPaused  lipgloss.Style
	TimerIdle    lipgloss.Style
	TimerClock   lipgloss.Style

	// Summary cards
	StatLabel lipgloss.Style
	StatValue lipgloss.Style
	Card      lipgloss.Style

	// Input
	InputFocused lipgloss.Style

	Dialog lipgloss.Style

	// Errors and warnings
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style

	// Heatmap shades, empty first
	Heatmap cli.HeatmapPalette
}

// palette maps semantic roles to colors.
type palette struct {
	primary, secondary, accent, muted lipgloss.TerminalColor
	success, warning, errorColor      lipgloss.TerminalColor
	fg, bg                            lipgloss.TerminalColor
	heatmap                           cli.HeatmapPalette
}

// DefaultStyles returns the styles used when no theme is available.
func DefaultStyles() Styles {
	return buildStyles(palette{
		primary:    lipgloss.Color("203"), // Tomato
		secondary:  lipgloss.Color("39"),  // Cyan
		accent:     lipgloss.Color("212"), // Pink
		muted:      lipgloss.Color("240"), // Gray
		success:    lipgloss.Color("82"),  // Green
		warning:    lipgloss.Color("214"), // Orange
		errorColor: lipgloss.Color("196"), // Red
		fg:         lipgloss.Color("252"),
		bg:         lipgloss.Color("236"),
		heatmap:    cli.DefaultPalette,
	})
}

// NewStylesFromRegistry creates a Styles struct using colors from a bubbletint registry.
// Red carries the primary role; the heatmap ramps from BrightBlack
// through Blue and Cyan to Green and BrightGreen.
func NewStylesFromRegistry(r *tint.Registry) Styles {
	return buildStyles(palette{
		primary:    r.Red(),
		secondary:  r.Cyan(),
		accent:     r.BrightPurple(),
		muted:      r.BrightBlack(),
		success:    r.Green(),
		warning:    r.Yellow(),
		errorColor: r.BrightRed(),
		fg:         r.Fg(),
		bg:         r.Bg(),
		heatmap: cli.HeatmapPalette{
			r.BrightBlack(),
			r.Blue(),
			r.Cyan(),
			r.Green(),
			r.BrightGreen(),
		},
	})
}

func buildStyles(p palette) Styles {
	return Styles{
		App: lipgloss.NewStyle().Padding(1, 2),

		TabBar: lipgloss.NewStyle().
			MarginBottom(1).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.muted),
		TabActive: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			Padding(0, 2),
		TabInactive: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 2),

		ViewTitle: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			MarginBottom(1),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.fg).
			Background(p.bg).
			Padding(0, 1),
		StatusKey: lipgloss.NewStyle().
			Foreground(p.secondary).
			Bold(true),
		StatusHelp: lipgloss.NewStyle().
			Foreground(p.muted),

		TableHeader: lipgloss.NewStyle().
			Foreground(p.secondary).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.muted).
			BorderBottom(true),
		TableSelected: lipgloss.NewStyle().
			Foreground(p.fg).
			Background(p.muted).
			Bold(true),

		TimerRunning: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		TimerPaused: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		TimerIdle: lipgloss.NewStyle().
			Foreground(p.muted),
		TimerClock: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary),

		StatLabel: lipgloss.NewStyle().
			Foreground(p.muted).
			Width(20),
		StatValue: lipgloss.NewStyle().
			Foreground(p.fg).
			Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.muted).
			Padding(0, 1).
			MarginRight(1),

		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.primary).
			Padding(0, 1),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(1, 2).
			Width(50),

		Error: lipgloss.NewStyle().
			Foreground(p.errorColor),
		Warning: lipgloss.NewStyle().
			Foreground(p.warning),
		Success: lipgloss.NewStyle().
			Foreground(p.success),

		Heatmap: p.heatmap,
	}
}
