package views

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xolan/tomato/internal/cli"
	"github.com/xolan/tomato/internal/service"
	"github.com/xolan/tomato/internal/session"
	"github.com/xolan/tomato/internal/tui/ui"
)

// TimerModel is the model for the timer view
type TimerModel struct {
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	// UI state
	width   int
	height  int
	snap    session.Snapshot
	warning string
	notice  string

	// Minutes prompt
	inputMode bool
	input     textinput.Model
}

// NewTimerModel creates a new timer view model
func NewTimerModel(services *service.Services, styles ui.Styles, keys ui.KeyMap) TimerModel {
	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(services.Session.DefaultMinutes())
	ti.CharLimit = 3
	ti.Width = 10

	return TimerModel{
		services: services,
		styles:   styles,
		keys:     keys,
		input:    ti,
		snap:     services.Session.Status(),
	}
}

// sessionActionMsg reports the result of a control call.
type sessionActionMsg struct {
	snap session.Snapshot
	err  error
}

// Init implements tea.Model
func (m TimerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m TimerModel) Update(msg tea.Msg) (TimerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inputMode {
			return m.handleInputMode(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Start):
			if m.snap.Active() {
				m.warning = "A session is already active; stop it first"
				return m, nil
			}
			m.inputMode = true
			m.warning = ""
			m.input.SetValue(strconv.Itoa(m.services.Session.DefaultMinutes()))
			m.input.CursorEnd()
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.Pause):
			return m, m.control(m.services.Session.Pause)
		case key.Matches(msg, m.keys.Resume):
			return m, m.control(m.services.Session.Resume)
		case key.Matches(msg, m.keys.Toggle):
			return m, m.control(m.services.Session.Toggle)
		case key.Matches(msg, m.keys.Stop):
			return m, m.control(m.services.Session.Stop)
		}

	case sessionActionMsg:
		m.snap = msg.snap
		m.warning = ""
		if msg.err != nil {
			m.warning = describeControlError(msg.err)
		}
		return m, nil

	case ui.SessionEventMsg:
		m.snap = msg.Event.Snapshot
		switch msg.Event.Kind {
		case session.EventStarted:
			m.notice = ""
		case session.EventStopped:
			m.notice = "Session stopped; nothing recorded"
		case session.EventCompleted:
			m.notice = completionNotice(msg.Event)
			if err := m.services.Session.LastSaveError(); err != nil {
				m.warning = err.Error()
			}
		}
		return m, nil

	case ui.StatusPollMsg:
		m.snap = m.services.Session.Status()
		return m, nil

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	return m, nil
}

// handleInputMode handles key events when in input mode
func (m TimerModel) handleInputMode(msg tea.KeyMsg) (TimerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		minutes, err := parseMinutes(m.input.Value())
		if err != nil {
			m.warning = err.Error()
			return m, nil
		}
		m.inputMode = false
		m.input.Blur()
		return m, m.control(func() (session.Snapshot, error) {
			return m.services.Session.Start(minutes)
		})
	case key.Matches(msg, m.keys.Back):
		m.inputMode = false
		m.warning = ""
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m TimerModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Timer"))
	b.WriteString("\n\n")

	if m.inputMode {
		b.WriteString(m.styles.StatLabel.Render("Minutes (1-180):"))
		b.WriteString("\n")
		b.WriteString(m.styles.InputFocused.Render(m.input.View()))
		b.WriteString("\n\n")
		b.WriteString(m.styles.StatLabel.Render("Enter to start, Esc to cancel"))
		b.WriteString(m.renderWarning())
		return b.String()
	}

	b.WriteString(m.clockStyle().Render(cli.StatusLine(m.snap)))
	b.WriteString("\n\n")

	switch m.snap.Phase {
	case session.Running, session.Paused:
		b.WriteString(m.renderLine("State:", m.snap.Phase.String()))
		b.WriteString(m.renderLine("Started:", m.snap.StartedAt.Format("15:04")))
		b.WriteString(m.renderLine("Elapsed:", fmt.Sprintf("%s of %s",
			cli.FormatClock(m.snap.Elapsed()), cli.FormatClock(m.snap.Total))))
		b.WriteString("\n")
		if m.snap.Phase == session.Running {
			b.WriteString(m.styles.StatLabel.Render("Press 'p' to pause, 'x' to stop"))
		} else {
			b.WriteString(m.styles.StatLabel.Render("Press 'r' to resume, 'x' to stop"))
		}
	default:
		b.WriteString(m.styles.TimerIdle.Render("No active session"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.StatLabel.Render("Press 's' to start a session"))
	}

	if m.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Success.Render(m.notice))
	}
	b.WriteString(m.renderWarning())

	return b.String()
}

func (m TimerModel) clockStyle() lipgloss.Style {
	switch m.snap.Phase {
	case session.Running:
		return m.styles.TimerClock.Foreground(m.styles.TimerRunning.GetForeground())
	case session.Paused:
		return m.styles.TimerClock.Foreground(m.styles.TimerPaused.GetForeground())
	}
	return m.styles.TimerClock
}

func (m TimerModel) renderLine(label, value string) string {
	return m.styles.StatLabel.Render(label) + " " + m.styles.StatValue.Render(value) + "\n"
}

func (m TimerModel) renderWarning() string {
	if m.warning == "" {
		return ""
	}
	return "\n\n" + m.styles.Warning.Render("Warning: "+m.warning)
}

// SetSize sets the view dimensions
func (m *TimerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsInputMode returns true when the view is capturing keyboard input
func (m TimerModel) IsInputMode() bool {
	return m.inputMode
}

// Snapshot returns the state the view last saw.
func (m TimerModel) Snapshot() session.Snapshot {
	return m.snap
}

// control runs a session call as a command.
func (m TimerModel) control(fn func() (session.Snapshot, error)) tea.Cmd {
	return func() tea.Msg {
		snap, err := fn()
		return sessionActionMsg{snap: snap, err: err}
	}
}

func parseMinutes(s string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number of minutes", s)
	}
	if err := session.ValidateMinutes(minutes); err != nil {
		return 0, err
	}
	return minutes, nil
}

func describeControlError(err error) string {
	switch {
	case errors.Is(err, session.ErrNotRunning):
		return "No running session to pause"
	case errors.Is(err, session.ErrNotPaused):
		return "No paused session to resume"
	case errors.Is(err, session.ErrIdle):
		return "No active session"
	case errors.Is(err, session.ErrAlreadyActive):
		return "A session is already active; stop it first"
	}
	return err.Error()
}

func completionNotice(e session.Event) string {
	if e.Record == nil {
		return "Session complete"
	}
	return fmt.Sprintf("Session complete: %s recorded", cli.FormatDuration(e.Record.Duration))
}
