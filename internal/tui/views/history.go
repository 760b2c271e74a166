package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xolan/tomato/internal/cli"
	"github.com/xolan/tomato/internal/heatmap"
	"github.com/xolan/tomato/internal/record"
	"github.com/xolan/tomato/internal/service"
	"github.com/xolan/tomato/internal/session"
	"github.com/xolan/tomato/internal/tui/ui"
)

// recentRecords is how many records the table lists.
const recentRecords = 50

// HistoryModel is the model for the history view
type HistoryModel struct {
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	// UI state
	width   int
	height  int
	window  int
	summary *service.HistorySummary
	table   table.Model
}

// NewHistoryModel creates a new history view model
func NewHistoryModel(services *service.Services, styles ui.Styles, keys ui.KeyMap) HistoryModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Start", Width: 7},
			{Title: "End", Width: 7},
			{Title: "Duration", Width: 9},
		}),
		table.WithHeight(8),
		table.WithFocused(true),
	)
	t.SetStyles(tableStyles(styles))

	return HistoryModel{
		services: services,
		styles:   styles,
		keys:     keys,
		window:   services.History.DefaultWindow(),
		table:    t,
	}
}

// historyLoadedMsg is sent when the summary is loaded
type historyLoadedMsg struct {
	summary service.HistorySummary
}

// Init implements tea.Model
func (m HistoryModel) Init() tea.Cmd {
	return m.loadHistory()
}

// Update implements tea.Model
func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Window):
			m.window = nextWindow(m.window)
			return m, m.loadHistory()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadHistory()
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case historyLoadedMsg:
		summary := msg.summary
		m.summary = &summary
		m.table.SetRows(recordRows(summary.Recent))
		return m, nil

	case ui.SessionEventMsg:
		if msg.Event.Kind == session.EventCompleted {
			return m, m.loadHistory()
		}
		return m, nil

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		m.table.SetStyles(tableStyles(msg.Styles))
		return m, nil
	}

	return m, nil
}

// View implements tea.Model
func (m HistoryModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render(fmt.Sprintf("History (last %d days)", m.window)))
	b.WriteString("\n\n")

	if m.summary == nil {
		b.WriteString("Loading...")
		return b.String()
	}
	s := m.summary

	b.WriteString(cli.RenderHeatmap(s.Cells, m.styles.Heatmap))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderCard("Sessions", strconv.Itoa(s.AllTime.TotalSessions)),
		m.renderCard("Focus time", cli.FormatDuration(s.AllTime.TotalMinutes)),
		m.renderCard("Average", cli.FormatDuration(s.AllTime.AverageMinutes)),
		m.renderCard("Streak", fmt.Sprintf("%d / %d %s",
			s.AllTime.CurrentStreak, s.AllTime.LongestStreak, cli.Pluralize("day", s.AllTime.LongestStreak))),
	))
	b.WriteString("\n")
	b.WriteString(m.styles.StatLabel.Render(fmt.Sprintf("Last %d days:", s.WindowDays)))
	b.WriteString(" ")
	b.WriteString(m.styles.StatValue.Render(fmt.Sprintf("%d %s, %s on %d %s",
		s.Window.TotalSessions, cli.Pluralize("session", s.Window.TotalSessions),
		cli.FormatDuration(s.Window.TotalMinutes),
		s.Window.DaysWithSessions, cli.Pluralize("day", s.Window.DaysWithSessions))))
	b.WriteString("\n\n")

	if len(s.Recent) == 0 {
		b.WriteString(m.styles.TimerIdle.Render("No sessions recorded yet"))
	} else {
		b.WriteString(m.table.View())
	}

	for _, w := range historyWarnings(s) {
		b.WriteString("\n")
		b.WriteString(m.styles.Warning.Render("Warning: " + w))
	}

	return b.String()
}

func (m HistoryModel) renderCard(label, value string) string {
	return m.styles.Card.Render(
		m.styles.StatLabel.Width(0).Render(label) + "\n" + m.styles.StatValue.Render(value))
}

// SetSize sets the view dimensions
func (m *HistoryModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	// Heatmap, cards and summary take about 18 lines.
	rows := height - 18
	if rows < 3 {
		rows = 3
	}
	m.table.SetHeight(rows)
}

// Window returns the displayed window size.
func (m HistoryModel) Window() int {
	return m.window
}

// loadHistory creates a command to load the summary
func (m HistoryModel) loadHistory() tea.Cmd {
	window := m.window
	return func() tea.Msg {
		return historyLoadedMsg{summary: m.services.History.Summary(window, recentRecords)}
	}
}

// nextWindow cycles through the supported windows.
func nextWindow(current int) int {
	for i, w := range heatmap.Windows {
		if w == current {
			return heatmap.Windows[(i+1)%len(heatmap.Windows)]
		}
	}
	return heatmap.DefaultWindow
}

func recordRows(records []record.Record) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			r.Date,
			r.StartTime.Format("15:04"),
			r.EndTime.Format("15:04"),
			cli.FormatDuration(r.Duration),
		})
	}
	return rows
}

func historyWarnings(s *service.HistorySummary) []string {
	var out []string
	if s.LoadErr != nil {
		out = append(out, s.LoadErr.Error())
	}
	if n := len(s.Warnings); n > 0 {
		out = append(out, fmt.Sprintf("%d corrupted %s skipped (run 'tomato validate')", n, cli.Pluralize("record", n)))
	}
	if s.Unsaved > 0 {
		out = append(out, fmt.Sprintf("%d %s not saved to disk", s.Unsaved, cli.Pluralize("session", s.Unsaved)))
	}
	return out
}

func tableStyles(styles ui.Styles) table.Styles {
	ts := table.DefaultStyles()
	ts.Header = styles.TableHeader.Padding(0, 1)
	ts.Selected = styles.TableSelected
	return ts
}
