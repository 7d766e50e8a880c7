// Package config persists the tool's defaults (datafile path, graph and
// listing sizes) as a TOML file in the user config directory. A missing file
// or missing keys fall back to defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	DefaultGraphDays            = 30
	DefaultPastPeriods          = 2
	DefaultMaxDisplayedCols     = 70
	DefaultListPreviousDays     = 0
	DefaultListMostFrequentDays = 5
)

const appDirName = "habitlog"

// Config holds every persisted setting.
type Config struct {
	// DatafilePath is the diary opened when no path is given on the command line.
	DatafilePath string `mapstructure:"datafile_path"`
	// GraphDays is the window size of one graph period, in days.
	GraphDays int `mapstructure:"graph_days"`
	// PastPeriods is how many windows the graph walks back.
	PastPeriods int `mapstructure:"past_periods"`
	// MaxDisplayedCols caps the width of terminal output.
	MaxDisplayedCols int `mapstructure:"max_displayed_cols"`
	// ListPreviousDays is how many recent days the list command prints.
	ListPreviousDays int `mapstructure:"list_previous_days"`
	// ListMostFrequentDays is how many top signatures the list command prints.
	ListMostFrequentDays int `mapstructure:"list_most_frequent_days"`
}

// Path returns the location of the config file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, appDirName, "config.toml"), nil
}

// DefaultDatafilePath returns where a diary lives when the user never chose
// a path.
func DefaultDatafilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, appDirName, "habitlog.db"), nil
}

// Load reads the config from its default location.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config file at path. An absent file yields the
// defaults; a present but malformed file is an error.
func LoadFrom(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	defaultDatafile, err := DefaultDatafilePath()
	if err != nil {
		return Config{}, err
	}
	v.SetDefault("datafile_path", defaultDatafile)
	v.SetDefault("graph_days", DefaultGraphDays)
	v.SetDefault("past_periods", DefaultPastPeriods)
	v.SetDefault("max_displayed_cols", DefaultMaxDisplayedCols)
	v.SetDefault("list_previous_days", DefaultListPreviousDays)
	v.SetDefault("list_most_frequent_days", DefaultListMostFrequentDays)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	return cfg, nil
}

// Save writes the config to its default location.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config file at path, creating parent directories as
// needed.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.Set("datafile_path", cfg.DatafilePath)
	v.Set("graph_days", cfg.GraphDays)
	v.Set("past_periods", cfg.PastPeriods)
	v.Set("max_displayed_cols", cfg.MaxDisplayedCols)
	v.Set("list_previous_days", cfg.ListPreviousDays)
	v.Set("list_most_frequent_days", cfg.ListMostFrequentDays)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// String renders the config the way it is shown to the user.
func (c Config) String() string {
	return fmt.Sprintf(
		"datafile_path = %q\ngraph_days = %d\npast_periods = %d\nmax_displayed_cols = %d\nlist_previous_days = %d\nlist_most_frequent_days = %d",
		c.DatafilePath, c.GraphDays, c.PastPeriods, c.MaxDisplayedCols, c.ListPreviousDays, c.ListMostFrequentDays,
	)
}
