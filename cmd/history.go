package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xolan/tomato/internal/cli"
	"github.com/xolan/tomato/internal/heatmap"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the session heatmap and summary",
	Long: `Show focused minutes per day as a heatmap, with summary statistics and
the most recent sessions.

The heatmap has one row per weekday and one column per week. Darker cells
mean more focused minutes, relative to the busiest day in the window.

Examples:
  tomato history                 Use window_days from the config (default 35)
  tomato history --window 365    The whole year
  tomato history --records 20    List the 20 most recent sessions`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showHistory(cmd)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().String("window", "", "Heatmap window in days: 35, 90 or 365")
	historyCmd.Flags().Int("records", 10, "Number of recent sessions to list (0 for none)")
	_ = historyCmd.RegisterFlagCompletionFunc("window", completeWindow)
}

// showHistory renders the heatmap, summary and recent records
func showHistory(cmd *cobra.Command) {
	windowStr, _ := cmd.Flags().GetString("window")
	recentCount, _ := cmd.Flags().GetInt("records")

	if recentCount < 0 {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: --records must not be negative (got %d)\n", recentCount)
		deps.Exit(1)
		return
	}

	window := 0
	if windowStr != "" {
		w, err := heatmap.ParseWindow(windowStr)
		if err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Invalid --window value")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use one of 35, 90 or 365")
			deps.Exit(1)
			return
		}
		window = w
	}

	services := openServices()
	if services == nil {
		return
	}
	defer closeServices(services)

	if window == 0 {
		window = services.History.DefaultWindow()
	}

	summary := services.History.Summary(window, recentCount)
	printHistoryWarnings(summary.HistoryResult)

	start := summary.Today.AddDate(0, 0, -(window - 1))
	_, _ = fmt.Fprintf(deps.Stdout, "Last %d days (%s)\n", window, cli.FormatDateRangeForDisplay(start, summary.Today))
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	_, _ = fmt.Fprintln(deps.Stdout, cli.RenderHeatmap(summary.Cells, cli.DefaultPalette))
	_, _ = fmt.Fprintln(deps.Stdout)

	w := summary.Window
	_, _ = fmt.Fprintf(deps.Stdout, "In window:       %d %s, %s on %d %s (best day %s)\n",
		w.TotalSessions, cli.Pluralize("session", w.TotalSessions),
		cli.FormatDuration(w.TotalMinutes),
		w.DaysWithSessions, cli.Pluralize("day", w.DaysWithSessions),
		cli.FormatDuration(summary.Peak))

	a := summary.AllTime
	_, _ = fmt.Fprintf(deps.Stdout, "All time:        %d %s, %s (average %s)\n",
		a.TotalSessions, cli.Pluralize("session", a.TotalSessions),
		cli.FormatDuration(a.TotalMinutes), cli.FormatDuration(a.AverageMinutes))
	_, _ = fmt.Fprintf(deps.Stdout, "Streak:          %d %s (longest %d)\n",
		a.CurrentStreak, cli.Pluralize("day", a.CurrentStreak), a.LongestStreak)
	if len(summary.Weekdays) > 0 {
		top := summary.Weekdays[0]
		_, _ = fmt.Fprintf(deps.Stdout, "Busiest weekday: %s (%s)\n", top.Weekday, cli.FormatDuration(top.TotalMinutes))
	}

	if recentCount == 0 {
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout)
	if len(summary.Recent) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No sessions recorded yet")
		_, _ = fmt.Fprintln(deps.Stdout, "Start one with 'tomato start'")
		return
	}
	_, _ = fmt.Fprintln(deps.Stdout, "Recent sessions:")
	for _, r := range summary.Recent {
		_, _ = fmt.Fprintf(deps.Stdout, "  %s\n", cli.FormatRecord(r))
	}
}
