package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/tomato/internal/config"
	"github.com/xolan/tomato/internal/service"
	"github.com/xolan/tomato/internal/session"
	"github.com/xolan/tomato/internal/session/sessiontest"
	"github.com/xolan/tomato/internal/tui/ui"
	"github.com/xolan/tomato/internal/tui/views"
)

func setupTestServices(t *testing.T) (*service.Services, *sessiontest.Scheduler) {
	t.Helper()
	tmpDir := t.TempDir()

	clock := sessiontest.NewClock(time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC))
	sched := &sessiontest.Scheduler{Clock: clock}
	paths := service.Paths{
		Storage: filepath.Join(tmpDir, "records.json"),
		Config:  filepath.Join(tmpDir, "config.toml"),
	}

	services, err := service.NewServicesWithPaths(paths, config.DefaultConfig(), service.Options{Clock: clock, Scheduler: sched})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = services.Close() })
	return services, sched
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNew(t *testing.T) {
	services, _ := setupTestServices(t)
	model := New(services)

	if model.activeTab != TabTimer {
		t.Errorf("expected initial tab to be Timer, got %d", model.activeTab)
	}
	if model.showHelp {
		t.Error("expected showHelp to be false initially")
	}
	if model.themeProvider.CurrentName() != config.DefaultTheme {
		t.Errorf("expected theme %q, got %q", config.DefaultTheme, model.themeProvider.CurrentName())
	}
}

func TestInit(t *testing.T) {
	services, _ := setupTestServices(t)
	if New(services).Init() == nil {
		t.Error("expected Init to return a command")
	}
}

func TestView_BeforeWindowSize(t *testing.T) {
	services, _ := setupTestServices(t)
	if New(services).View() != "Loading..." {
		t.Error("expected loading placeholder before the first WindowSizeMsg")
	}
}

func TestUpdate_WindowSizeMsg(t *testing.T) {
	services, _ := setupTestServices(t)
	m, _ := update(t, New(services), tea.WindowSizeMsg{Width: 100, Height: 50})

	if m.width != 100 || m.height != 50 {
		t.Errorf("expected 100x50, got %dx%d", m.width, m.height)
	}

	view := m.View()
	for _, name := range tabNames {
		if !strings.Contains(view, name) {
			t.Errorf("tab %q missing from view", name)
		}
	}
	if !strings.Contains(view, "Start Pomodoro") {
		t.Errorf("expected idle status line in status bar:\n%s", view)
	}
}

func TestUpdate_QuitKey(t *testing.T) {
	services, _ := setupTestServices(t)
	_, cmd := update(t, New(services), runeKey('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestUpdate_TabSwitching(t *testing.T) {
	services, _ := setupTestServices(t)
	m := New(services)

	tests := []struct {
		msg  tea.KeyMsg
		want Tab
	}{
		{runeKey('2'), TabHistory},
		{runeKey('3'), TabConfig},
		{runeKey('1'), TabTimer},
		{tea.KeyMsg{Type: tea.KeyTab}, TabHistory},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, TabTimer},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, TabConfig},
	}

	for _, tt := range tests {
		m, _ = update(t, m, tt.msg)
		if m.activeTab != tt.want {
			t.Errorf("after %q: tab = %d, want %d", tt.msg.String(), m.activeTab, tt.want)
		}
	}
}

func TestUpdate_PromptCapturesKeys(t *testing.T) {
	services, _ := setupTestServices(t)
	m := New(services)

	m, _ = update(t, m, runeKey('s'))
	if !m.isCapturingKeys() {
		t.Fatal("expected the minutes prompt to capture keys")
	}

	// '2' and '?' go to the prompt instead of switching tabs or opening help.
	m, _ = update(t, m, runeKey('2'))
	m, _ = update(t, m, runeKey('?'))
	if m.activeTab != TabTimer || m.showHelp {
		t.Error("global key handled while the prompt was open")
	}
	if !m.isCapturingKeys() {
		t.Error("prompt closed unexpectedly")
	}
}

func TestUpdate_HelpToggle(t *testing.T) {
	services, _ := setupTestServices(t)
	m, _ := update(t, New(services), tea.WindowSizeMsg{Width: 100, Height: 50})

	m, _ = update(t, m, runeKey('?'))
	if !m.showHelp {
		t.Fatal("expected help to be shown")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help overlay not rendered")
	}

	m, _ = update(t, m, runeKey('?'))
	if m.showHelp {
		t.Error("expected help to be hidden")
	}
}

func TestUpdate_SessionEventRearmsListener(t *testing.T) {
	services, _ := setupTestServices(t)
	m := New(services)
	m, _ = update(t, m, runeKey('2'))

	snap := session.Snapshot{Phase: session.Running, Remaining: 60, Total: 60}
	m, cmd := update(t, m, ui.SessionEventMsg{Event: session.Event{Kind: session.EventStarted, Snapshot: snap}})
	if cmd == nil {
		t.Fatal("expected the listener to be re-armed")
	}
	// The timer view tracks events even while another tab is active.
	if m.timerView.Snapshot().Phase != session.Running {
		t.Errorf("timer view did not see the event: %+v", m.timerView.Snapshot())
	}
}

func TestListenForEvents(t *testing.T) {
	services, sched := setupTestServices(t)

	if _, err := services.Session.Start(1); err != nil {
		t.Fatal(err)
	}
	sched.Tick()

	msg := listenForEvents(services.Session.Events())()
	ev, ok := msg.(ui.SessionEventMsg)
	if !ok || ev.Event.Kind != session.EventStarted {
		t.Fatalf("expected start event, got %#v", msg)
	}
	msg = listenForEvents(services.Session.Events())()
	if ev, ok := msg.(ui.SessionEventMsg); !ok || ev.Event.Kind != session.EventTick {
		t.Errorf("expected tick event, got %#v", msg)
	}
}

func TestListenForEvents_Closed(t *testing.T) {
	ch := make(chan session.Event)
	close(ch)
	if msg := listenForEvents(ch)(); msg != nil {
		t.Errorf("expected nil on closed feed, got %#v", msg)
	}
}

func TestUpdate_ThemeChange(t *testing.T) {
	services, _ := setupTestServices(t)
	m := New(services)

	m, cmd := update(t, m, ui.ThemeChangeRequestMsg{ThemeName: "nord"})
	if m.themeProvider.CurrentName() != "nord" {
		t.Errorf("theme = %q, expected nord", m.themeProvider.CurrentName())
	}
	if cmd == nil {
		t.Fatal("expected a save command")
	}

	saved, ok := cmd().(views.ThemeSavedMsg)
	if !ok || saved.Err != nil {
		t.Fatalf("unexpected save result %#v", saved)
	}
	loaded, err := config.Load(services.Config.GetPath())
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Theme != "nord" {
		t.Errorf("saved theme = %q, expected nord", loaded.Theme)
	}
}
