package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xolan/tomato/internal/cli"
	"github.com/xolan/tomato/internal/service"
	"github.com/xolan/tomato/internal/storage"
)

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore [backup_number]",
	Short: "Restore records from a backup",
	Long: `Restore the record store from a backup.

A backup is taken before every rewrite of records.json. By default the most
recent backup (.bak.1) is restored. Optionally specify a backup number (1-3).
Backups exist only for the json storage backend.

Examples:
  tomato restore       Restore from most recent backup
  tomato restore 2     Restore from backup #2`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		restoreFromBackup(args)
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

// restoreFromBackup handles the restore command logic
func restoreFromBackup(args []string) {
	backupNum := 1
	if len(args) > 0 {
		num, err := strconv.Atoi(args[0])
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid backup number '%s'\n", args[0])
			deps.Exit(1)
			return
		}
		if num < 1 || num > storage.MaxBackupCount {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Backup number must be between 1 and %d (got %d)\n", storage.MaxBackupCount, num)
			deps.Exit(1)
			return
		}
		backupNum = num
	}

	services := openServices()
	if services == nil {
		return
	}
	defer closeServices(services)

	backups, err := services.History.Backups()
	if err != nil {
		handleListBackupsError(err)
		return
	}

	if len(backups) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No backups available")
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Available backups:")
	for _, backup := range backups {
		suffix := ""
		if backup.Number == 1 {
			suffix = ", most recent"
		}
		_, _ = fmt.Fprintf(deps.Stdout, "  %d: %s (%d %s%s)\n",
			backup.Number, backup.Path, backup.Records, cli.Pluralize("record", backup.Records), suffix)
	}
	_, _ = fmt.Fprintln(deps.Stdout)

	backupExists := false
	for _, backup := range backups {
		if backup.Number == backupNum {
			backupExists = true
			break
		}
	}

	if !backupExists {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Backup %d does not exist\n", backupNum)
		deps.Exit(1)
		return
	}

	if err := services.History.Restore(backupNum); err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to restore backup: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Successfully restored from backup %d\n", backupNum)
}

func handleListBackupsError(err error) {
	if errors.Is(err, service.ErrUnsupported) {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Backups are not available for this storage backend")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Set storage = \"json\" in the config file to use backups")
		deps.Exit(1)
		return
	}
	_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to list backups: %v\n", err)
	deps.Exit(1)
}
