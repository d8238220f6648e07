package logging

import (
	"os"
	"sync"
)

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
)

// DefaultLogger returns the process logger. Until SetDefaultLogger is
// called it is a stderr JSON logger whose level comes from
// RESGRAPH_LOG_LEVEL or LOG_LEVEL.
func DefaultLogger() Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewJSONLogger(os.Stderr, envLevel())
	}
	return defaultLogger
}

func envLevel() Level {
	for _, key := range []string{"RESGRAPH_LOG_LEVEL", "LOG_LEVEL"} {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return ParseLevel(v)
		}
	}
	return InfoLevel
}

// SetDefaultLogger replaces the process logger.
func SetDefaultLogger(logger Logger) {
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

func Debug(msg string, fields ...Field) { DefaultLogger().Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { DefaultLogger().Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { DefaultLogger().Warn(msg, fields...) }

// ErrorLog logs at error level on the process logger. Error is taken by the
// field constructor.
func ErrorLog(msg string, fields ...Field) { DefaultLogger().Error(msg, fields...) }

// With returns a child of the process logger.
func With(fields ...Field) Logger { return DefaultLogger().With(fields...) }
