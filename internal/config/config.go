// Package config loads Spindle configuration from defaults, an optional
// TOML file, and environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/spindle/internal/event"
	"github.com/dshills/spindle/internal/eventlog"
)

// Config is the top-level application configuration.
type Config struct {
	// HistoryCapacity bounds the dispatcher's event history.
	HistoryCapacity int `toml:"history_capacity" env:"SPINDLE_HISTORY_CAPACITY"`

	// BusLogging enables verbose dispatcher diagnostics.
	BusLogging bool `toml:"bus_logging" env:"SPINDLE_BUS_LOGGING"`

	// Console enables the interactive introspection console.
	Console bool `toml:"console" env:"SPINDLE_CONSOLE"`

	// DBPath is the BoltDB file backing log snapshots. Empty keeps
	// snapshots in memory.
	DBPath string `toml:"db_path" env:"SPINDLE_DB_PATH"`

	// Log configures the event logger.
	Log LogConfig `toml:"log" envPrefix:"SPINDLE_LOG_"`
}

// LogConfig configures the event logger.
type LogConfig struct {
	Level        string   `toml:"level" env:"LEVEL"`
	MaxEntries   int      `toml:"max_entries" env:"MAX_ENTRIES"`
	Output       bool     `toml:"output" env:"OUTPUT"`
	Persist      bool     `toml:"persist" env:"PERSIST"`
	SnapshotSize int      `toml:"snapshot_size" env:"SNAPSHOT_SIZE"`
	IncludeTypes []string `toml:"include_types" env:"INCLUDE_TYPES"`
	ExcludeTypes []string `toml:"exclude_types" env:"EXCLUDE_TYPES"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HistoryCapacity: event.DefaultHistoryCapacity,
		Console:         true,
		Log: LogConfig{
			Level:        eventlog.LevelInfo.String(),
			MaxEntries:   eventlog.DefaultMaxEntries,
			Output:       true,
			SnapshotSize: eventlog.DefaultSnapshotSize,
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path (when
// path is non-empty and the file exists), and environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Missing file falls through to defaults + env.
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	cfg.clamp()
	return cfg, nil
}

// clamp fixes out-of-range values in place.
func (c *Config) clamp() {
	if c.HistoryCapacity < 1 {
		c.HistoryCapacity = event.DefaultHistoryCapacity
	}
	if c.Log.MaxEntries < 1 {
		c.Log.MaxEntries = eventlog.DefaultMaxEntries
	}
	if c.Log.SnapshotSize < 1 {
		c.Log.SnapshotSize = eventlog.DefaultSnapshotSize
	}
}

// LoggerConfig converts the log section into the event logger's config.
func (c Config) LoggerConfig() eventlog.Config {
	include := make([]event.Type, 0, len(c.Log.IncludeTypes))
	for _, t := range c.Log.IncludeTypes {
		include = append(include, event.Type(t))
	}
	exclude := make([]event.Type, 0, len(c.Log.ExcludeTypes))
	for _, t := range c.Log.ExcludeTypes {
		exclude = append(exclude, event.Type(t))
	}

	return eventlog.Config{
		MaxEntries:        c.Log.MaxEntries,
		Level:             eventlog.ParseLevel(c.Log.Level),
		EnableOutput:      c.Log.Output,
		EnablePersistence: c.Log.Persist,
		SnapshotSize:      c.Log.SnapshotSize,
		IncludeTypes:      include,
		ExcludeTypes:      exclude,
	}
}
