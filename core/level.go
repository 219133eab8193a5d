package core

import (
	"fmt"
	"strings"
)

// Level specifies the severity of a log record.
type Level int

const (
	// VerboseLevel is the most detailed logging level.
	VerboseLevel Level = iota

	// DebugLevel is for debugging information.
	DebugLevel

	// InformationLevel is for informational messages.
	InformationLevel

	// WarningLevel is for warnings.
	WarningLevel

	// ErrorLevel is for errors.
	ErrorLevel

	// FatalLevel is for fatal errors.
	FatalLevel
)

// String returns the level's full name.
func (l Level) String() string {
	switch l {
	case VerboseLevel:
		return "Verbose"
	case DebugLevel:
		return "Debug"
	case InformationLevel:
		return "Information"
	case WarningLevel:
		return "Warning"
	case ErrorLevel:
		return "Error"
	case FatalLevel:
		return "Fatal"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Short returns the fixed-width three-letter tag used in text output.
func (l Level) Short() string {
	switch l {
	case VerboseLevel:
		return "VRB"
	case DebugLevel:
		return "DBG"
	case InformationLevel:
		return "INF"
	case WarningLevel:
		return "WRN"
	case ErrorLevel:
		return "ERR"
	case FatalLevel:
		return "FTL"
	default:
		return "???"
	}
}

// ParseLevel converts a level name to a Level. Full names such as
// "Information" and the short tags such as "INF" are accepted, in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "verbose", "vrb", "trace":
		return VerboseLevel, nil
	case "debug", "dbg":
		return DebugLevel, nil
	case "information", "info", "inf":
		return InformationLevel, nil
	case "warning", "warn", "wrn":
		return WarningLevel, nil
	case "error", "err":
		return ErrorLevel, nil
	case "fatal", "ftl":
		return FatalLevel, nil
	default:
		return InformationLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
