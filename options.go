package flog

import (
	"time"

	"github.com/tcallahan/flog/backends"
	"github.com/tcallahan/flog/core"
)

// config holds the configuration for building a logger.
type config struct {
	name         string
	minimumLevel core.Level
	levelSwitch  *LevelSwitch
	backends     []core.Backend
	fallback     core.Backend
	clock        func() time.Time
	metadata     core.Metadata
}

func defaultConfig() config {
	return config{minimumLevel: core.InformationLevel}
}

// Option is a functional option for configuring a logger.
type Option func(*config)

// WithName sets the logger's name, used by scope level maps in place of
// per-site package names.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithMinimumLevel sets the static minimum level. Records below it are
// dropped unless a scope forces them.
func WithMinimumLevel(level core.Level) Option {
	return func(c *config) {
		c.minimumLevel = level
	}
}

// WithLevelSwitch enables runtime level control. A level switch takes
// precedence over the static minimum level.
func WithLevelSwitch(ls *LevelSwitch) Option {
	return func(c *config) {
		c.levelSwitch = ls
	}
}

// WithBackend adds backends to the logger. Records go to every backend, and
// one failing backend never stops the others.
func WithBackend(backends ...core.Backend) Option {
	return func(c *config) {
		c.backends = append(c.backends, backends...)
	}
}

// WithFallback sets the backend that receives records a regular backend
// failed to write. The default is a console backend on standard error, so
// a broken backend degrades output rather than losing it.
func WithFallback(backend core.Backend) Option {
	return func(c *config) {
		c.fallback = backend
	}
}

// WithConsole adds a console backend on standard error.
func WithConsole() Option {
	return func(c *config) {
		c.backends = append(c.backends, backends.NewConsoleStderr())
	}
}

// WithClock overrides the time source, for tests that need deterministic
// timestamps and rate limit windows.
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithMetadata attaches metadata to every record the logger emits, ahead of
// scope and statement metadata.
func WithMetadata(md core.Metadata) Option {
	return func(c *config) {
		c.metadata = core.Concat(c.metadata, md)
	}
}
