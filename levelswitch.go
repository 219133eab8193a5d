package flog

import (
	"sync/atomic"

	"github.com/tcallahan/flog/core"
)

// LevelSwitch provides thread-safe, runtime control of the minimum log
// level, so a running service can be opened up or quieted without a
// restart. Install one with WithLevelSwitch and keep a reference to it.
type LevelSwitch struct {
	level atomic.Int32
}

// NewLevelSwitch creates a level switch starting at the given level.
func NewLevelSwitch(initial core.Level) *LevelSwitch {
	ls := &LevelSwitch{}
	ls.SetLevel(initial)
	return ls
}

// Level returns the current minimum level.
func (ls *LevelSwitch) Level() core.Level {
	return core.Level(ls.level.Load())
}

// SetLevel updates the minimum level. The change takes effect immediately
// on every logger sharing the switch.
func (ls *LevelSwitch) SetLevel(level core.Level) {
	ls.level.Store(int32(level))
}

// IsEnabled reports whether level passes the current minimum.
func (ls *LevelSwitch) IsEnabled(level core.Level) bool {
	return level >= ls.Level()
}

// Verbose sets the minimum level to Verbose.
func (ls *LevelSwitch) Verbose() *LevelSwitch {
	ls.SetLevel(core.VerboseLevel)
	return ls
}

// Debug sets the minimum level to Debug.
func (ls *LevelSwitch) Debug() *LevelSwitch {
	ls.SetLevel(core.DebugLevel)
	return ls
}

// Information sets the minimum level to Information.
func (ls *LevelSwitch) Information() *LevelSwitch {
	ls.SetLevel(core.InformationLevel)
	return ls
}

// Warning sets the minimum level to Warning.
func (ls *LevelSwitch) Warning() *LevelSwitch {
	ls.SetLevel(core.WarningLevel)
	return ls
}

// Error sets the minimum level to Error.
func (ls *LevelSwitch) Error() *LevelSwitch {
	ls.SetLevel(core.ErrorLevel)
	return ls
}

// Fatal sets the minimum level to Fatal.
func (ls *LevelSwitch) Fatal() *LevelSwitch {
	ls.SetLevel(core.FatalLevel)
	return ls
}
