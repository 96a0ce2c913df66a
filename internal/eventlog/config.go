package eventlog

import "github.com/dshills/spindle/internal/event"

// DefaultMaxEntries is the capture buffer capacity used when the config
// does not set one.
const DefaultMaxEntries = 1000

// DefaultSnapshotSize is the number of most recent entries written per
// persistence snapshot.
const DefaultSnapshotSize = 100

// Config controls what the logger captures and where it goes.
type Config struct {
	// MaxEntries bounds the capture buffer. Oldest entries are evicted.
	MaxEntries int

	// Level is the severity threshold; entries at or below it are retained.
	Level Level

	// EnableOutput gates synchronous textual emission per retained entry.
	EnableOutput bool

	// EnablePersistence gates best-effort snapshot writes to the sink.
	EnablePersistence bool

	// SnapshotSize is how many of the most recent entries each snapshot
	// write includes.
	SnapshotSize int

	// IncludeTypes, when non-empty, is the only set of event types
	// accepted. It takes precedence over ExcludeTypes.
	IncludeTypes []event.Type

	// ExcludeTypes lists event types to drop. Applied only when
	// IncludeTypes is empty.
	ExcludeTypes []event.Type
}

// DefaultConfig returns the logger defaults.
func DefaultConfig() Config {
	return Config{
		MaxEntries:   DefaultMaxEntries,
		Level:        LevelInfo,
		SnapshotSize: DefaultSnapshotSize,
	}
}

// normalize clamps out-of-range values in place and reports whether
// anything had to be adjusted.
func (c *Config) normalize() bool {
	adjusted := false
	if !c.Level.Valid() {
		c.Level = c.Level.Clamp()
		adjusted = true
	}
	if c.MaxEntries < 1 {
		c.MaxEntries = DefaultMaxEntries
		adjusted = true
	}
	if c.SnapshotSize < 1 {
		c.SnapshotSize = DefaultSnapshotSize
		adjusted = true
	}
	return adjusted
}

// accepts reports whether an event of type t passes the include/exclude
// filters. Include wins over exclude.
func (c *Config) accepts(t event.Type) bool {
	if len(c.IncludeTypes) > 0 {
		for _, inc := range c.IncludeTypes {
			if inc == t {
				return true
			}
		}
		return false
	}
	for _, exc := range c.ExcludeTypes {
		if exc == t {
			return false
		}
	}
	return true
}

// ConfigUpdate is a partial configuration; nil fields keep their current
// value. Updates take effect for subsequent events only.
type ConfigUpdate struct {
	MaxEntries        *int
	Level             *Level
	EnableOutput      *bool
	EnablePersistence *bool
	SnapshotSize      *int
	IncludeTypes      []event.Type
	ExcludeTypes      []event.Type
}

// apply merges the update into cfg.
func (u ConfigUpdate) apply(cfg *Config) {
	if u.MaxEntries != nil {
		cfg.MaxEntries = *u.MaxEntries
	}
	if u.Level != nil {
		cfg.Level = *u.Level
	}
	if u.EnableOutput != nil {
		cfg.EnableOutput = *u.EnableOutput
	}
	if u.EnablePersistence != nil {
		cfg.EnablePersistence = *u.EnablePersistence
	}
	if u.SnapshotSize != nil {
		cfg.SnapshotSize = *u.SnapshotSize
	}
	if u.IncludeTypes != nil {
		cfg.IncludeTypes = u.IncludeTypes
	}
	if u.ExcludeTypes != nil {
		cfg.ExcludeTypes = u.ExcludeTypes
	}
}
