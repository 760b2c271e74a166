package views

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/tomato/internal/config"
	"github.com/xolan/tomato/internal/service"
	"github.com/xolan/tomato/internal/tui/ui"
)

// ConfigModel is the model for the config view
type ConfigModel struct {
	services      *service.Services
	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap

	// UI state
	width       int
	height      int
	config      config.Config
	path        string
	exists      bool
	storagePath string
	themeName   string
	saveErr     error

	// Theme selector
	selectingTheme bool
	themes         []string
	selector       table.Model
}

// NewConfigModel creates a new config view model
func NewConfigModel(services *service.Services, themeProvider *ui.ThemeProvider, styles ui.Styles, keys ui.KeyMap) ConfigModel {
	selector := table.New(
		table.WithColumns([]table.Column{
			{Title: "Theme", Width: 30},
			{Title: "", Width: 9},
		}),
		table.WithHeight(maxVisibleThemes),
		table.WithFocused(true),
	)
	selector.SetStyles(tableStyles(styles))

	m := ConfigModel{
		services:      services,
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
		themes:        themeProvider.AvailableThemes(),
		themeName:     themeProvider.CurrentName(),
		selector:      selector,
	}
	m.resetCursor()
	return m
}

// Init implements tea.Model
func (m ConfigModel) Init() tea.Cmd {
	return m.loadConfig()
}

// configLoadedMsg is sent when config is loaded
type configLoadedMsg struct {
	config      config.Config
	path        string
	exists      bool
	storagePath string
}

// ThemeSavedMsg reports the result of persisting a theme choice.
type ThemeSavedMsg struct {
	Err error
}

// maxVisibleThemes is the selector height in rows.
const maxVisibleThemes = 10

// Update implements tea.Model
func (m ConfigModel) Update(msg tea.Msg) (ConfigModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.selectingTheme {
			return m.handleThemeSelection(msg)
		}

		if key.Matches(msg, m.keys.Select) || key.Matches(msg, m.keys.Themes) {
			m.selectingTheme = true
			return m, nil
		}

	case configLoadedMsg:
		m.config = msg.config
		m.path = msg.path
		m.exists = msg.exists
		m.storagePath = msg.storagePath
		m.themeName = m.themeProvider.CurrentName()
		m.resetCursor()

	case ThemeSavedMsg:
		m.saveErr = msg.Err
		if msg.Err == nil {
			m.exists = true
			m.config = m.services.Config.Get()
		}

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		m.themeName = msg.ThemeName
		m.selector.SetStyles(tableStyles(msg.Styles))
		m.resetCursor()
		return m, nil
	}

	return m, nil
}

// handleThemeSelection handles keys when theme selector is open
func (m ConfigModel) handleThemeSelection(msg tea.KeyMsg) (ConfigModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		m.selectingTheme = false
		if len(m.themes) == 0 {
			return m, nil
		}
		return m, m.requestThemeChange(m.themes[m.selector.Cursor()])

	case key.Matches(msg, m.keys.Back):
		m.selectingTheme = false
		m.resetCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.selector, cmd = m.selector.Update(msg)
	return m, cmd
}

// resetCursor marks the current theme and moves the selector to it.
func (m *ConfigModel) resetCursor() {
	rows := make([]table.Row, len(m.themes))
	cursor := 0
	for i, t := range m.themes {
		rows[i] = table.Row{t, ""}
		if t == m.themeName {
			rows[i][1] = "current"
			cursor = i
		}
	}
	m.selector.SetRows(rows)
	m.selector.SetCursor(cursor)
}

// requestThemeChange creates a command to request a theme change by name
func (m ConfigModel) requestThemeChange(themeName string) tea.Cmd {
	return func() tea.Msg {
		return ui.ThemeChangeRequestMsg{ThemeName: themeName}
	}
}

// View implements tea.Model
func (m ConfigModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Configuration"))
	b.WriteString("\n\n")

	b.WriteString(m.styles.StatLabel.Render("Config file:"))
	b.WriteString(" ")
	b.WriteString(m.styles.StatValue.Render(m.path))
	b.WriteString("\n")

	b.WriteString(m.styles.StatLabel.Render("Status:"))
	b.WriteString(" ")
	if m.exists {
		b.WriteString(m.styles.Success.Render("File exists"))
	} else {
		b.WriteString(m.styles.Warning.Render("Using defaults (no config file)"))
	}
	b.WriteString("\n")
	b.WriteString(m.renderConfigLine("Records:", m.storagePath))
	b.WriteString("\n")

	b.WriteString(strings.Repeat("─", min(50, m.width)))
	b.WriteString("\n\n")

	b.WriteString(m.renderConfigLine("default_minutes", strconv.Itoa(m.config.DefaultMinutes)))
	b.WriteString(m.renderConfigLine("window_days", strconv.Itoa(m.config.WindowDays)))
	b.WriteString(m.renderConfigLine("storage", m.config.Storage))
	b.WriteString(m.renderConfigLine("timezone", m.config.Timezone))

	if m.selectingTheme {
		b.WriteString(m.renderThemeSelector())
	} else {
		b.WriteString(m.renderConfigLine("theme", m.themeName))
		b.WriteString("\n")
		b.WriteString(m.styles.StatLabel.Width(0).Render("Press Enter or 't' to change theme"))
	}

	if m.saveErr != nil {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Warning.Render("Warning: failed to save theme: " + m.saveErr.Error()))
	}

	return b.String()
}

// renderThemeSelector renders the theme selection list
func (m ConfigModel) renderThemeSelector() string {
	return m.renderConfigLine("theme", "select a theme") + "\n" +
		m.selector.View() + "\n\n" +
		m.styles.StatLabel.Width(0).Render("↑/↓ navigate  Enter select  Esc cancel")
}

// SetSize sets the view dimensions
func (m *ConfigModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// loadConfig creates a command to load config
func (m ConfigModel) loadConfig() tea.Cmd {
	return func() tea.Msg {
		return configLoadedMsg{
			config:      m.services.Config.Get(),
			path:        m.services.Config.GetPath(),
			exists:      m.services.Config.Exists(),
			storagePath: m.services.History.StoragePath(),
		}
	}
}

func (m ConfigModel) renderConfigLine(key, value string) string {
	return m.styles.StatLabel.Render(key+":") + " " + m.styles.StatValue.Render(value) + "\n"
}
