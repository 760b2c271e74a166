package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/xolan/tomato/internal/heatmap"
	"github.com/xolan/tomato/internal/osutil"
	"github.com/xolan/tomato/internal/session"
	"github.com/xolan/tomato/internal/storage"
)

const (
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"
	// LocalTimezone selects the system time zone
	LocalTimezone = "Local"
	// DefaultTheme is the TUI theme used when none is configured
	DefaultTheme = "dracula"
)

var (
	ErrInvalidMinutes  = errors.New("invalid default_minutes")
	ErrInvalidWindow   = errors.New("invalid window_days")
	ErrInvalidStorage  = errors.New("invalid storage")
	ErrInvalidTimezone = errors.New("invalid timezone")
)

// Config represents the application configuration
type Config struct {
	// DefaultMinutes is the session length offered when none is given
	DefaultMinutes int `toml:"default_minutes"`
	// WindowDays is the default heatmap window (35, 90 or 365)
	WindowDays int `toml:"window_days"`
	// Storage selects the record backend ("json" or "sqlite")
	Storage string `toml:"storage"`
	// Timezone is an IANA name or "Local"; it decides which calendar day a
	// session belongs to
	Timezone string `toml:"timezone"`
	// Theme is a bubbletint theme id for the TUI
	Theme string `toml:"theme"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		DefaultMinutes: session.DefaultMinutes,
		WindowDays:     heatmap.DefaultWindow,
		Storage:        storage.BackendJSON,
		Timezone:       LocalTimezone,
		Theme:          DefaultTheme,
	}
}

// GetConfigPath returns the path to the config file, creating the app
// directory if it doesn't exist.
func GetConfigPath() (string, error) {
	return osutil.AppFile(ConfigFile)
}

// Load reads and validates the config at path. Keys missing from the file
// keep their defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault loads path, returning DefaultConfig when the file does not
// exist. Any other failure is returned.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), err
	}
	return Load(path)
}

// Normalize trims and lowercases string fields and fills empty ones with
// defaults.
func (c *Config) Normalize() {
	defaults := DefaultConfig()

	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	if c.Storage == "" {
		c.Storage = defaults.Storage
	}

	c.Timezone = strings.TrimSpace(c.Timezone)
	if c.Timezone == "" || strings.EqualFold(c.Timezone, LocalTimezone) {
		c.Timezone = LocalTimezone
	}

	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := session.ValidateMinutes(c.DefaultMinutes); err != nil {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidMinutes, c.DefaultMinutes, session.MinMinutes, session.MaxMinutes)
	}
	if !heatmap.IsSupportedWindow(c.WindowDays) {
		return fmt.Errorf("%w: %d (must be one of %v)", ErrInvalidWindow, c.WindowDays, heatmap.Windows)
	}
	if !storage.IsValidBackend(c.Storage) {
		return fmt.Errorf("%w: %q (must be %q or %q)", ErrInvalidStorage, c.Storage, storage.BackendJSON, storage.BackendSQLite)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == LocalTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, c.Timezone)
	}
	return loc, nil
}

// GenerateSampleConfig returns a commented config file listing every option.
func GenerateSampleConfig() string {
	return `# tomato configuration file
# Uncomment a line to change its value.

# Session length in minutes used when none is given (1-180).
# default_minutes = 25

# Days shown by the history heatmap: 35, 90 or 365.
# window_days = 35

# Record storage backend: "json" (records.json) or "sqlite" (records.db).
# storage = "json"

# Time zone deciding which calendar day a session belongs to.
# Use "Local" for the system zone, or an IANA name such as
# "America/New_York", "Europe/London" or "Asia/Tokyo".
# timezone = "Local"

# TUI color theme (bubbletint id), e.g. "dracula", "nord", "gruvbox_dark".
# theme = "dracula"
`
}
