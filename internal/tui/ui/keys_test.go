package ui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func TestDefaultKeyMap(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
	}{
		{"Up", keys.Up},
		{"Down", keys.Down},
		{"NextTab", keys.NextTab},
		{"PrevTab", keys.PrevTab},
		{"Tab1", keys.Tab1},
		{"Tab2", keys.Tab2},
		{"Tab3", keys.Tab3},
		{"Select", keys.Select},
		{"Back", keys.Back},
		{"Quit", keys.Quit},
		{"Help", keys.Help},
		{"Refresh", keys.Refresh},
		{"Start", keys.Start},
		{"Pause", keys.Pause},
		{"Resume", keys.Resume},
		{"Toggle", keys.Toggle},
		{"Stop", keys.Stop},
		{"Window", keys.Window},
		{"Themes", keys.Themes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.binding.Keys()) == 0 {
				t.Errorf("%s binding has no keys", tt.name)
			}
			if tt.binding.Help().Key == "" {
				t.Errorf("%s binding has no help text", tt.name)
			}
		})
	}
}

func TestDefaultKeyMap_SessionKeys(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		key     string
		binding key.Binding
	}{
		{"s", keys.Start},
		{"p", keys.Pause},
		{"r", keys.Resume},
		{"x", keys.Stop},
		{"w", keys.Window},
	}

	for _, tt := range tests {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)}
		if !key.Matches(msg, tt.binding) {
			t.Errorf("key %q does not match its binding", tt.key)
		}
	}
}
