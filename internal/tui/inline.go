package tui

import (
	"io"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/tomato/internal/service"
	"github.com/xolan/tomato/internal/session"
	"github.com/xolan/tomato/internal/tui/ui"
	"github.com/xolan/tomato/internal/tui/views"
)

// inlineStop ends the session from the foreground countdown. The timer
// view's stop key (x) works too; its start key is shadowed.
var inlineStop = key.NewBinding(
	key.WithKeys("s", "q", "ctrl+c"),
	key.WithHelp("s/q", "stop"),
)

// InlineModel shows the timer view for an already running session and quits
// once the session completes or is stopped.
type InlineModel struct {
	services *service.Services
	timer    views.TimerModel
	final    *session.Event
}

// NewInline creates the foreground countdown model.
func NewInline(services *service.Services) InlineModel {
	styles := ui.NewThemeProvider(services.Config.Get().Theme).Styles()
	return InlineModel{
		services: services,
		timer:    views.NewTimerModel(services, styles, ui.DefaultKeyMap()),
	}
}

// Init implements tea.Model
func (m InlineModel) Init() tea.Cmd {
	return tea.Batch(listenForEvents(m.services.Session.Events()), pollStatus())
}

// Update implements tea.Model
func (m InlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, inlineStop) {
			return m, m.stop()
		}

	case ui.SessionEventMsg:
		m.timer, cmd = m.timer.Update(msg)
		switch msg.Event.Kind {
		case session.EventCompleted, session.EventStopped:
			e := msg.Event
			m.final = &e
			return m, tea.Quit
		}
		return m, tea.Batch(cmd, listenForEvents(m.services.Session.Events()))

	case ui.StatusPollMsg:
		m.timer, cmd = m.timer.Update(msg)
		return m, tea.Batch(cmd, pollStatus())
	}

	m.timer, cmd = m.timer.Update(msg)
	return m, cmd
}

// stop asks the session to stop. The Stopped event quits the program; if the
// session completed first, the Completed event does.
func (m InlineModel) stop() tea.Cmd {
	return func() tea.Msg {
		_, _ = m.services.Session.Stop()
		return nil
	}
}

// View implements tea.Model. It is empty once the session is over so the
// caller can print the outcome below the prompt.
func (m InlineModel) View() string {
	if m.final != nil {
		return ""
	}
	return m.timer.View() + "\n"
}

// Final returns the event that ended the session, if any.
func (m InlineModel) Final() (session.Event, bool) {
	if m.final == nil {
		return session.Event{}, false
	}
	return *m.final, true
}

// RunInline runs the countdown of the active session in the terminal without
// the alternate screen. Signals are left to the caller. It returns the event
// that ended the session.
func RunInline(services *service.Services, in io.Reader, out io.Writer) (session.Event, bool, error) {
	p := tea.NewProgram(NewInline(services),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithoutSignalHandler(),
	)
	final, err := p.Run()
	if err != nil {
		return session.Event{}, false, err
	}
	e, ok := final.(InlineModel).Final()
	return e, ok, nil
}
