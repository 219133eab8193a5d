package scopes

import (
	"sort"
	"strings"

	"github.com/tcallahan/flog/core"
)

// LogLevelMap maps logger name prefixes to minimum levels. Lookup picks the
// longest matching prefix, so specific packages can be opened up while their
// parents stay quiet:
//
//	m := scopes.NewLogLevelMap(map[string]core.Level{
//		"github.com/acme":         core.InformationLevel,
//		"github.com/acme/billing": core.VerboseLevel,
//	})
//
// Prefixes match on "/" and "." segment boundaries; "github.com/acme" does
// not match a logger named "github.com/acmeops". A LogLevelMap is immutable
// once built and safe to share.
type LogLevelMap struct {
	overrides    map[string]core.Level
	defaultLevel core.Level
	hasDefault   bool
}

// NewLogLevelMap builds a level map from logger name prefixes. The map is
// copied; later changes to it do not affect the result.
func NewLogLevelMap(overrides map[string]core.Level) *LogLevelMap {
	copied := make(map[string]core.Level, len(overrides))
	for prefix, level := range overrides {
		copied[prefix] = level
	}
	return &LogLevelMap{overrides: copied}
}

// WithDefault returns a copy of m that matches every logger, using level
// when no prefix matches. A map with a default always decides, shadowing
// any outer scope's map.
func (m *LogLevelMap) WithDefault(level core.Level) *LogLevelMap {
	out := NewLogLevelMap(m.overrides)
	out.defaultLevel = level
	out.hasDefault = true
	return out
}

// Level returns the minimum level for loggerName, or false if no prefix
// matches and the map has no default. The longest matching prefix wins;
// an exact match beats any prefix.
func (m *LogLevelMap) Level(loggerName string) (core.Level, bool) {
	if level, ok := m.overrides[loggerName]; ok {
		return level, true
	}

	var longest string
	var matched core.Level
	var found bool
	for prefix, level := range m.overrides {
		if !prefixMatches(loggerName, prefix) {
			continue
		}
		if !found || len(prefix) > len(longest) {
			longest = prefix
			matched = level
			found = true
		}
	}
	if found {
		return matched, true
	}
	if m.hasDefault {
		return m.defaultLevel, true
	}
	return 0, false
}

// Prefixes returns the configured prefixes in sorted order, for diagnostics
// and configuration round trips.
func (m *LogLevelMap) Prefixes() []string {
	prefixes := make([]string, 0, len(m.overrides))
	for prefix := range m.overrides {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	return prefixes
}

func prefixMatches(name, prefix string) bool {
	if !strings.HasPrefix(name, prefix) {
		return false
	}
	if len(name) == len(prefix) {
		return true
	}
	next := name[len(prefix)]
	return next == '/' || next == '.'
}
