package eventlog

import "github.com/rs/zerolog"

// Level is the severity of a log entry. Lower values are more severe; an
// entry is retained when its level is at or below the logger's active
// threshold. LevelNone retains nothing.
type Level int

const (
	// LevelNone disables capture entirely.
	LevelNone Level = iota
	// LevelError is for listener failures and collaborator faults.
	LevelError
	// LevelWarn is for non-fatal misuse and degraded behavior.
	LevelWarn
	// LevelInfo is for routine event traffic.
	LevelInfo
	// LevelDebug is for detailed diagnostic traffic.
	LevelDebug
	// LevelVerbose captures everything.
	LevelVerbose
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelNone:
		return "NONE"
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelVerbose:
		return "VERBOSE"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether l is within the defined range.
func (l Level) Valid() bool {
	return l >= LevelNone && l <= LevelVerbose
}

// Clamp returns the nearest valid level.
func (l Level) Clamp() Level {
	if l < LevelNone {
		return LevelNone
	}
	if l > LevelVerbose {
		return LevelVerbose
	}
	return l
}

// ParseLevel parses a string into a Level. Unknown strings parse to
// LevelInfo.
func ParseLevel(s string) Level {
	switch s {
	case "none", "NONE":
		return LevelNone
	case "error", "ERROR":
		return LevelError
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "info", "INFO":
		return LevelInfo
	case "debug", "DEBUG":
		return LevelDebug
	case "verbose", "VERBOSE", "trace", "TRACE":
		return LevelVerbose
	default:
		return LevelInfo
	}
}

// zerologLevel maps a Level onto the output channel's level scale.
func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelVerbose:
		return zerolog.TraceLevel
	default:
		return zerolog.Disabled
	}
}
