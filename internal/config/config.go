// Package config provides configuration loading and management for daygrid.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// AppDir is the directory under the user config dir that holds daygrid's files.
const AppDir = "daygrid"

// Config represents the complete daygrid configuration
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Export    ExportConfig    `yaml:"export"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	UI        UIConfig        `yaml:"ui"`
}

// DatabaseConfig configures the SQLite store
type DatabaseConfig struct {
	// Path is the database file (":memory:" for a throwaway store)
	Path string `yaml:"path"`
}

// LogConfig configures the rotated log file
type LogConfig struct {
	Path       string `yaml:"path"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// ExportConfig configures where exports from the TUI are written
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// AnalyticsConfig configures period statistics
type AnalyticsConfig struct {
	// DefaultRangeDays is the period shown when the analytics view opens
	DefaultRangeDays int `yaml:"default_range_days"`
	// StreakCoverage is the coverage percentage a day must exceed to extend a streak
	StreakCoverage int `yaml:"streak_coverage"`
}

// UIConfig configures the terminal UI
type UIConfig struct {
	// AltScreen is nil when a file leaves it unset
	AltScreen *bool `yaml:"alt_screen,omitempty"`
}

// AltScreenEnabled reports whether the TUI takes over the whole terminal.
func (u UIConfig) AltScreenEnabled() bool {
	return u.AltScreen == nil || *u.AltScreen
}

// Dir returns the directory holding daygrid's config, database and logs.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, AppDir)
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "daygrid.db"),
		},
		Log: LogConfig{
			Path:       filepath.Join(dir, "daygrid.log"),
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Analytics: AnalyticsConfig{
			DefaultRangeDays: 7,
			StreakCoverage:   50,
		},
		UI: UIConfig{
			AltScreen: boolPtr(true),
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Log.Path == "" {
		return fmt.Errorf("log.path is required")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation limits must not be negative")
	}
	if c.Analytics.DefaultRangeDays < 1 || c.Analytics.DefaultRangeDays > 365 {
		return fmt.Errorf("analytics.default_range_days must be between 1 and 365")
	}
	if c.Analytics.StreakCoverage < 0 || c.Analytics.StreakCoverage > 100 {
		return fmt.Errorf("analytics.streak_coverage must be between 0 and 100")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// readLayer decodes path into an empty Config, so only the keys present in
// the file are set. Loader merges layers read this way.
func readLayer(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	layer := &Config{}
	if err := yaml.Unmarshal(data, layer); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return layer, nil
}

func boolPtr(b bool) *bool {
	return &b
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one. Non-zero values of other take
// precedence; zero values and a nil AltScreen keep what c already has.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Database.Path != "" {
		c.Database.Path = other.Database.Path
	}

	if other.Log.Path != "" {
		c.Log.Path = other.Log.Path
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.MaxSizeMB != 0 {
		c.Log.MaxSizeMB = other.Log.MaxSizeMB
	}
	if other.Log.MaxBackups != 0 {
		c.Log.MaxBackups = other.Log.MaxBackups
	}
	if other.Log.MaxAgeDays != 0 {
		c.Log.MaxAgeDays = other.Log.MaxAgeDays
	}

	if other.Export.Dir != "" {
		c.Export.Dir = other.Export.Dir
	}

	if other.Analytics.DefaultRangeDays != 0 {
		c.Analytics.DefaultRangeDays = other.Analytics.DefaultRangeDays
	}
	if other.Analytics.StreakCoverage != 0 {
		c.Analytics.StreakCoverage = other.Analytics.StreakCoverage
	}

	if other.UI.AltScreen != nil {
		c.UI.AltScreen = boolPtr(*other.UI.AltScreen)
	}
}
