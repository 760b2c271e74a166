package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xolan/tomato/internal/tui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Long: `Launch the interactive Terminal User Interface for tomato.

Views available:
  - Timer: Start, pause, resume and stop a focus session
  - History: Heatmap, summary cards and recent sessions
  - Config: View configuration and pick a theme

Keyboard shortcuts:
  - Tab/Shift+Tab: Navigate between views
  - 1-3: Jump to specific view
  - s: Start a session, p/r: pause/resume, x: stop
  - ?: Show help
  - q: Quit (an active session is abandoned)`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI()
	},
}

// runTUI is swapped out in tests; the real program needs a terminal.
var runTUI = func() {
	services := openServices()
	if services == nil {
		return
	}
	defer closeServices(services)

	if err := tui.Run(services); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to run the interactive UI")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	// Add --tui flag to root command for quick access
	rootCmd.PersistentFlags().Bool("tui", false, "Launch interactive terminal UI")
}

// CheckTUIFlag checks if the --tui flag is set and runs the TUI if so.
// Returns true if the TUI was launched, false otherwise.
func CheckTUIFlag(cmd *cobra.Command) bool {
	tuiFlag, _ := cmd.Root().PersistentFlags().GetBool("tui")
	if tuiFlag {
		runTUI()
		return true
	}
	return false
}
