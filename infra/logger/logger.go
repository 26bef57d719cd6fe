package logger

import corelogger "github.com/kilianp07/schedsim/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger = corelogger.Nop

// New returns a Logger for the given component. The output format and level
// follow Configure, falling back to the APP_ENV and LOG_LEVEL variables.
func New(component string) Logger {
	return NewZerologLogger(component)
}
