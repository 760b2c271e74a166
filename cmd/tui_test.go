package cmd

import (
	"testing"
)

func TestCheckTUIFlag(t *testing.T) {
	newTestEnv(t)

	original := runTUI
	defer func() { runTUI = original }()
	launched := 0
	runTUI = func() { launched++ }

	if CheckTUIFlag(rootCmd) {
		t.Error("TUI launched without --tui")
	}

	flag := rootCmd.PersistentFlags().Lookup("tui")
	if err := flag.Value.Set("true"); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = flag.Value.Set("false") }()

	if !CheckTUIFlag(rootCmd) {
		t.Error("expected --tui to launch the TUI")
	}
	if launched != 1 {
		t.Errorf("runTUI called %d times, want 1", launched)
	}
}
