// Package tui provides the Terminal User Interface for tomato.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xolan/tomato/internal/cli"
	"github.com/xolan/tomato/internal/service"
	"github.com/xolan/tomato/internal/session"
	"github.com/xolan/tomato/internal/tui/ui"
	"github.com/xolan/tomato/internal/tui/views"
)

// Tab represents a view tab
type Tab int

const (
	TabTimer Tab = iota
	TabHistory
	TabConfig
)

var tabNames = []string{"Timer", "History", "Config"}

// pollInterval is how often the timer view re-reads the session state.
const pollInterval = time.Second

// Model is the root TUI model
type Model struct {
	services *service.Services

	// UI state
	activeTab Tab
	width     int
	height    int
	showHelp  bool

	// View models
	timerView   views.TimerModel
	historyView views.HistoryModel
	configView  views.ConfigModel

	// Theme and styles
	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap
}

// New creates a new TUI model
func New(services *service.Services) Model {
	themeProvider := ui.NewThemeProvider(services.Config.Get().Theme)
	styles := themeProvider.Styles()
	keys := ui.DefaultKeyMap()

	return Model{
		services:      services,
		activeTab:     TabTimer,
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
		timerView:     views.NewTimerModel(services, styles, keys),
		historyView:   views.NewHistoryModel(services, styles, keys),
		configView:    views.NewConfigModel(services, themeProvider, styles, keys),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.timerView.Init(),
		m.historyView.Init(),
		m.configView.Init(),
		listenForEvents(m.services.Session.Events()),
		pollStatus(),
	)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The minutes prompt swallows every key except ctrl+c.
		capturingKeys := m.isCapturingKeys()

		switch {
		case msg.String() == "ctrl+c":
			return m, tea.Quit

		case key.Matches(msg, m.keys.Quit) && !capturingKeys:
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help) && !capturingKeys:
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.NextTab) && !capturingKeys:
			m.activeTab = Tab((int(m.activeTab) + 1) % len(tabNames))
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.PrevTab) && !capturingKeys:
			m.activeTab = Tab((int(m.activeTab) - 1 + len(tabNames)) % len(tabNames))
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.Tab1) && !capturingKeys:
			m.activeTab = TabTimer
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.Tab2) && !capturingKeys:
			m.activeTab = TabHistory
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.Tab3) && !capturingKeys:
			m.activeTab = TabConfig
			return m, m.initCurrentView()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentHeight := m.height - 4 // tabs and status bar
		m.timerView.SetSize(m.width, contentHeight)
		m.historyView.SetSize(m.width, contentHeight)
		m.configView.SetSize(m.width, contentHeight)
		return m, nil

	case ui.SessionEventMsg:
		// Every view sees session events, whichever tab is active.
		var timerCmd, historyCmd tea.Cmd
		m.timerView, timerCmd = m.timerView.Update(msg)
		m.historyView, historyCmd = m.historyView.Update(msg)
		return m, tea.Batch(timerCmd, historyCmd, listenForEvents(m.services.Session.Events()))

	case ui.StatusPollMsg:
		m.timerView, cmd = m.timerView.Update(msg)
		return m, tea.Batch(cmd, pollStatus())

	case views.ThemeSavedMsg:
		m.configView, cmd = m.configView.Update(msg)
		return m, cmd

	case ui.ThemeChangeRequestMsg:
		m.themeProvider.SetTheme(msg.ThemeName)
		newTheme := m.themeProvider.CurrentName()
		m.styles = m.themeProvider.Styles()

		themeMsg := ui.ThemeChangedMsg{
			ThemeName: newTheme,
			Styles:    m.styles,
		}
		m.timerView, _ = m.timerView.Update(themeMsg)
		m.historyView, _ = m.historyView.Update(themeMsg)
		m.configView, _ = m.configView.Update(themeMsg)

		return m, m.saveThemeConfig(newTheme)
	}

	// Update the active view
	switch m.activeTab {
	case TabTimer:
		m.timerView, cmd = m.timerView.Update(msg)
	case TabHistory:
		m.historyView, cmd = m.historyView.Update(msg)
	case TabConfig:
		m.configView, cmd = m.configView.Update(msg)
	}

	return m, cmd
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch m.activeTab {
	case TabTimer:
		b.WriteString(m.timerView.View())
	case TabHistory:
		b.WriteString(m.historyView.View())
	case TabConfig:
		b.WriteString(m.configView.View())
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderStatusBar())

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	return m.styles.App.Render(b.String())
}

// renderTabs renders the tab bar
func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs = append(tabs, m.styles.TabActive.Render(name))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(name))
		}
	}
	return m.styles.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// renderStatusBar renders the key hints on the left and the session status
// line on the right.
func (m Model) renderStatusBar() string {
	var parts []string

	if m.isCapturingKeys() {
		parts = append(parts, m.renderKeyHelp("Enter", "start"))
		parts = append(parts, m.renderKeyHelp("Esc", "cancel"))
	} else {
		switch m.activeTab {
		case TabTimer:
			parts = append(parts, m.renderKeyHelp("s", "start"))
			parts = append(parts, m.renderKeyHelp("p/r", "pause/resume"))
			parts = append(parts, m.renderKeyHelp("x", "stop"))
		case TabHistory:
			parts = append(parts, m.renderKeyHelp("w", "window"))
			parts = append(parts, m.renderKeyHelp("↑/↓", "records"))
		case TabConfig:
			parts = append(parts, m.renderKeyHelp("t", "themes"))
		}

		parts = append(parts, m.renderKeyHelp("1-3", "views"))
		parts = append(parts, m.renderKeyHelp("?", "help"))
		parts = append(parts, m.renderKeyHelp("q", "quit"))
	}

	content := strings.Join(parts, "  ")
	status := cli.StatusLine(m.timerView.Snapshot())

	padding := m.width - lipgloss.Width(content) - lipgloss.Width(status) - 6
	if padding < 2 {
		padding = 2
	}
	content += strings.Repeat(" ", padding) + status

	return m.styles.StatusBar.Render(content)
}

// renderKeyHelp renders a single key help item
func (m Model) renderKeyHelp(key, desc string) string {
	return fmt.Sprintf("%s %s",
		m.styles.StatusKey.Render(key),
		m.styles.StatusHelp.Render(desc))
}

// isCapturingKeys checks if the current view is capturing keyboard input
func (m Model) isCapturingKeys() bool {
	return m.activeTab == TabTimer && m.timerView.IsInputMode()
}

// initCurrentView reloads the view being switched to
func (m Model) initCurrentView() tea.Cmd {
	switch m.activeTab {
	case TabTimer:
		return m.timerView.Init()
	case TabHistory:
		return m.historyView.Init()
	case TabConfig:
		return m.configView.Init()
	}
	return nil
}

// saveThemeConfig saves the theme to the config file
func (m Model) saveThemeConfig(themeName string) tea.Cmd {
	return func() tea.Msg {
		return views.ThemeSavedMsg{Err: m.services.Config.SetTheme(themeName)}
	}
}

// renderHelpOverlay renders the key reference for the active view
func (m Model) renderHelpOverlay() string {
	var help strings.Builder

	help.WriteString(m.styles.ViewTitle.Render("Keyboard Shortcuts"))
	help.WriteString("\n\n")

	help.WriteString(m.styles.StatLabel.Render("Global:"))
	help.WriteString("\n")
	help.WriteString("  Tab/1-3    Switch views\n")
	help.WriteString("  ?          Toggle help\n")
	help.WriteString("  q          Quit (abandons an active session)\n")
	help.WriteString("\n")

	switch m.activeTab {
	case TabTimer:
		help.WriteString(m.styles.StatLabel.Render("Timer:"))
		help.WriteString("\n")
		help.WriteString("  s          Start a session\n")
		help.WriteString("  p          Pause\n")
		help.WriteString("  r          Resume\n")
		help.WriteString("  space      Pause/resume\n")
		help.WriteString("  x          Stop without recording\n")
	case TabHistory:
		help.WriteString(m.styles.StatLabel.Render("History:"))
		help.WriteString("\n")
		help.WriteString("  w          Cycle 35/90/365 days\n")
		help.WriteString("  j/k        Scroll records\n")
		help.WriteString("  ctrl+r     Refresh\n")
	case TabConfig:
		help.WriteString(m.styles.StatLabel.Render("Config:"))
		help.WriteString("\n")
		help.WriteString("  t/Enter    Open theme selector\n")
		help.WriteString("  j/k        Navigate themes\n")
		help.WriteString("  Enter      Select theme\n")
		help.WriteString("  Esc        Cancel\n")
	}

	help.WriteString("\n")
	help.WriteString(m.styles.StatLabel.Width(0).Render("Press ? to close"))

	return m.styles.App.Render(m.styles.Dialog.Render(help.String()))
}

// listenForEvents waits for the next session event.
func listenForEvents(events <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return ui.SessionEventMsg{Event: e}
	}
}

// pollStatus schedules the next status poll.
func pollStatus() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return ui.StatusPollMsg(t)
	})
}

// Run starts the TUI application
func Run(services *service.Services) error {
	p := tea.NewProgram(New(services), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
