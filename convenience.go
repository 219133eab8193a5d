package flog

// Shorthand methods for plain statements without rate limits or metadata.
// Anything more belongs on the builder: logger.AtInfo().Every(100).Log(...).

// Verbosef logs a printf-style message at Verbose.
func (l *Logger) Verbosef(format string, args ...any) {
	l.AtVerbose().AddCallerSkip(1).Log(format, args...)
}

// Debugf logs a printf-style message at Debug.
func (l *Logger) Debugf(format string, args ...any) {
	l.AtDebug().AddCallerSkip(1).Log(format, args...)
}

// Infof logs a printf-style message at Information.
func (l *Logger) Infof(format string, args ...any) {
	l.AtInfo().AddCallerSkip(1).Log(format, args...)
}

// Warnf logs a printf-style message at Warning.
func (l *Logger) Warnf(format string, args ...any) {
	l.AtWarning().AddCallerSkip(1).Log(format, args...)
}

// Errorf logs a printf-style message at Error.
func (l *Logger) Errorf(format string, args ...any) {
	l.AtError().AddCallerSkip(1).Log(format, args...)
}

// Fatalf logs a printf-style message at Fatal. The process keeps running.
func (l *Logger) Fatalf(format string, args ...any) {
	l.AtFatal().AddCallerSkip(1).Log(format, args...)
}
