package core

import (
	"fmt"
	"strings"
)

// LogSite identifies the source location of a single log statement. Two
// statements are the same site when function, file and line all match, so a
// LogSite is usable directly as a map key.
//
// The zero value is the invalid site, reported for statements whose caller
// could not be resolved.
type LogSite struct {
	// Function is the fully qualified function name,
	// e.g. "github.com/acme/billing.(*Worker).Run".
	Function string

	// File is the source file path as recorded by the runtime.
	File string

	// Line is the line number of the log statement.
	Line int
}

// Valid reports whether the site was resolved to a real source location.
func (s LogSite) Valid() bool {
	return s.Function != "" && s.Line > 0
}

// String formats the site as "function(file:line)".
func (s LogSite) String() string {
	if !s.Valid() {
		return "<unknown>"
	}
	file := s.File
	if i := strings.LastIndexByte(file, '/'); i >= 0 {
		file = file[i+1:]
	}
	return fmt.Sprintf("%s(%s:%d)", s.Function, file, s.Line)
}

// LoggerName derives the statement's logger name from the enclosing package
// path, e.g. "github.com/acme/billing" for a statement inside that package.
// Level overrides installed in a scope match against this name unless the
// logger was given an explicit name.
func (s LogSite) LoggerName() string {
	fn := s.Function
	slash := strings.LastIndexByte(fn, '/')
	dot := strings.IndexByte(fn[slash+1:], '.')
	if dot < 0 {
		return fn
	}
	return fn[:slash+1+dot]
}

func (LogSite) isLogSiteKey() {}

// LogSiteKey is the key under which per-site state, such as rate limiter
// counters, is stored. A plain LogSite is a key; SpecializeKey derives
// further keys from it so a single statement can hold several independent
// states.
type LogSiteKey interface {
	isLogSiteKey()
}

type specializedKey struct {
	parent    LogSiteKey
	qualifier any
}

func (specializedKey) isLogSiteKey() {}

// SpecializeKey returns a key distinct from parent for every distinct
// qualifier. The qualifier must be comparable, like a map key; using an
// uncomparable value panics on first lookup.
//
// Specializing the same parent with an equal qualifier yields an equal key,
// so state attached to the pair is found again on the next call.
func SpecializeKey(parent LogSiteKey, qualifier any) LogSiteKey {
	return specializedKey{parent: parent, qualifier: qualifier}
}

// ScopeHandle is the lifecycle surface of an installed logging scope. Scope
// qualifiers implement it so per-site state keyed to a scope can be removed
// when the scope closes rather than accumulating forever.
type ScopeHandle interface {
	// OnClose registers fn to run when the scope closes. If the scope is
	// already closed, fn runs immediately.
	OnClose(fn func())

	// Closed reports whether the scope has been closed.
	Closed() bool
}

// ScopeOf returns the innermost scope qualifier embedded in key, or false if
// the key is not specialized by any scope.
func ScopeOf(key LogSiteKey) (ScopeHandle, bool) {
	for {
		sk, ok := key.(specializedKey)
		if !ok {
			return nil, false
		}
		if h, ok := sk.qualifier.(ScopeHandle); ok {
			return h, true
		}
		key = sk.parent
	}
}
