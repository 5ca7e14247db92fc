package logger

import corelogger "github.com/kilianp07/geodeplan/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger discards everything.
type NopLogger = corelogger.NopLogger

// New returns a Logger for the given component at the default level. The
// output format follows the APP_ENV variable.
func New(component string) Logger {
	return NewZerologLogger(component)
}
