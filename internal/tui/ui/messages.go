package ui

import (
	"time"

	"github.com/xolan/tomato/internal/session"
)

// ThemeChangeRequestMsg is sent when a theme change is requested.
type ThemeChangeRequestMsg struct {
	ThemeName string
}

// ThemeChangedMsg is broadcast to all views when the theme changes.
type ThemeChangedMsg struct {
	ThemeName string
	Styles    Styles
}

// SessionEventMsg carries one event from the session feed.
type SessionEventMsg struct {
	Event session.Event
}

// StatusPollMsg asks views to re-read the session state. It covers ticks the
// feed dropped while the program was busy.
type StatusPollMsg time.Time
