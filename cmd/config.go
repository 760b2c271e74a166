package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or manage configuration settings",
	Long: `Display the current effective configuration settings for tomato.

Shows the configuration file location, whether it exists, and all current settings.
Configuration values are merged from the config file with sensible defaults.

tomato works without any configuration file. All settings have defaults:
  - default_minutes: 25 (1-180)
  - window_days: 35 (35, 90 or 365)
  - storage: json (json or sqlite)
  - timezone: Local (system timezone)
  - theme: dracula

Examples:
  tomato config          Show all current settings
  tomato config init     Write a commented sample config file

Configuration file location:
  ~/.config/tomato/config.toml          Linux
  %APPDATA%\tomato\config.toml          Windows`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showConfig()
	},
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sample config file",
	Long:  `Write a commented sample config.toml with every setting at its default. An existing file is left untouched.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		initConfig()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}

// showConfig displays the current effective configuration
func showConfig() {
	services := openServices()
	if services == nil {
		return
	}
	defer closeServices(services)

	cfg := services.Config.Get()
	configPath := services.Config.GetPath()

	_, _ = fmt.Fprintln(deps.Stdout, "Configuration for tomato")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 60))
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintf(deps.Stdout, "Config file:     %s\n", configPath)
	fileExists := services.Config.Exists()
	if fileExists {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          File exists (using custom configuration)")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          No config file (using defaults)")
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Records:         %s\n", services.History.StoragePath())
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintln(deps.Stdout, "Current Settings:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
	_, _ = fmt.Fprintf(deps.Stdout, "Default Minutes: %d\n", cfg.DefaultMinutes)
	_, _ = fmt.Fprintf(deps.Stdout, "Window Days:     %d\n", cfg.WindowDays)
	_, _ = fmt.Fprintf(deps.Stdout, "Storage:         %s\n", cfg.Storage)
	_, _ = fmt.Fprintf(deps.Stdout, "Timezone:        %s\n", cfg.Timezone)
	_, _ = fmt.Fprintf(deps.Stdout, "Theme:           %s\n", cfg.Theme)
	_, _ = fmt.Fprintln(deps.Stdout)

	if !fileExists {
		_, _ = fmt.Fprintln(deps.Stdout, "Tip: Run 'tomato config init' to create a config file you can edit.")
		_, _ = fmt.Fprintln(deps.Stdout)
	}
}

// initConfig writes the sample config file
func initConfig() {
	services := openServices()
	if services == nil {
		return
	}
	defer closeServices(services)

	if err := services.Config.Init(); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to create config file")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Edit the existing file, or remove it and run 'tomato config init' again")
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Created config file: %s\n", services.Config.GetPath())
}
