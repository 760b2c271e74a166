package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xolan/tomato/internal/cli"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check storage health",
	Long:  `Validate the record store and report on its health, including any corrupted records.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		validateStorage()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateStorage() {
	services := openServices()
	if services == nil {
		return
	}
	defer closeServices(services)

	health, err := services.History.Validate()
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to validate storage")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check that the file is readable: %s\n", services.History.StoragePath())
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Storage file: %s\n", health.Path)
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))

	_, _ = fmt.Fprintf(deps.Stdout, "Total records:     %d\n", health.TotalRecords)
	_, _ = fmt.Fprintf(deps.Stdout, "Valid records:     %d\n", health.ValidRecords)
	_, _ = fmt.Fprintf(deps.Stdout, "Corrupted records: %d\n", health.CorruptedRecords)

	if len(health.Warnings) > 0 {
		_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
		_, _ = fmt.Fprintln(deps.Stdout, "Corrupted records:")
		for _, warning := range health.Warnings {
			_, _ = fmt.Fprintln(deps.Stdout, cli.FormatCorruptionWarning(warning))
		}
	}

	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	if health.Healthy() {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: ✓ Storage is healthy")
	} else {
		_, _ = fmt.Fprintf(deps.Stderr, "Status: ⚠ Storage has %d corrupted %s\n",
			health.CorruptedRecords, cli.Pluralize("record", health.CorruptedRecords))
	}
}
