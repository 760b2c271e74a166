package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xolan/tomato/internal/cli"
	"github.com/xolan/tomato/internal/filter"
	"github.com/xolan/tomato/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "tomato",
	Short: "A focus-session timer with a history heatmap",
	Long: `tomato runs Pomodoro-style focus sessions and keeps a history of the
sessions you finish.

Usage:
  tomato                          Show today's sessions
  tomato start [minutes]          Run a session in the foreground (default 25)
  tomato history                  Heatmap of the last 35, 90 or 365 days
  tomato export json|csv|yaml     Export session records
  tomato validate                 Check storage health
  tomato restore [n]              Restore records from backup (default: most recent)
  tomato config [init]            Show or create the config file
  tomato tui                      Launch the interactive UI

Only sessions that run to completion are recorded. Stopping a session
discards it.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if CheckTUIFlag(cmd) {
			return
		}
		showToday()
	},
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"tomato version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command
func Execute() error {
	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)
	return rootCmd.Execute()
}

// showToday prints today's completed sessions and a hint for starting one
func showToday() {
	services := openServices()
	if services == nil {
		return
	}
	defer closeServices(services)

	today, result := services.History.Today()
	printHistoryWarnings(result)

	day := services.History.Now()
	_, _ = fmt.Fprintf(deps.Stdout, "Today (%s)\n", cli.FormatDateRangeForDisplay(day, day))

	if today.TotalSessions == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No sessions completed yet")
	} else {
		_, _ = fmt.Fprintf(deps.Stdout, "%d %s, %s focused\n",
			today.TotalSessions, cli.Pluralize("session", today.TotalSessions),
			cli.FormatDuration(today.TotalMinutes))
		for _, r := range filter.FilterRecords(result.Records, filter.NewFilter(day, day, 0)) {
			_, _ = fmt.Fprintf(deps.Stdout, "  %s\n", cli.FormatRecord(r))
		}
	}

	_, _ = fmt.Fprintln(deps.Stdout)
	_, _ = fmt.Fprintf(deps.Stdout, "Start a %dm session with 'tomato start', or run 'tomato --help' for more\n",
		services.Session.DefaultMinutes())
}

// openServices opens the application services, reporting failure and
// exiting. Returns nil on failure.
func openServices() *service.Services {
	services, err := deps.Services(deps.Stderr)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to initialize tomato")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check your config file with 'tomato config'")
		deps.Exit(1)
		return nil
	}
	return services
}

func closeServices(services *service.Services) {
	if err := services.Close(); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Warning: Failed to close storage")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
	}
}

// printHistoryWarnings reports read failures, corrupted records and unsaved
// sessions on stderr. None of them stop the command.
func printHistoryWarnings(result service.HistoryResult) {
	if result.LoadErr != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Warning: Failed to read session history; showing no records")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", result.LoadErr)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Run 'tomato validate' or 'tomato restore' to recover")
	}

	if n := len(result.Warnings); n > 0 {
		_, _ = fmt.Fprintf(deps.Stderr, "Warning: Found %d corrupted %s in storage:\n", n, cli.Pluralize("record", n))
		for _, warning := range result.Warnings {
			_, _ = fmt.Fprintln(deps.Stderr, cli.FormatCorruptionWarning(warning))
		}
		_, _ = fmt.Fprintln(deps.Stderr)
	}

	if result.Unsaved > 0 {
		_, _ = fmt.Fprintf(deps.Stderr, "Warning: %d %s could not be saved to disk\n",
			result.Unsaved, cli.Pluralize("session", result.Unsaved))
	}
}
