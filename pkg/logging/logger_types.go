package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log entry.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = [...]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

func (l Level) String() string {
	if l < DebugLevel || l > ErrorLevel {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// MarshalText encodes the level as its lower-case name.
func (l Level) MarshalText() ([]byte, error) {
	if l < DebugLevel || l > ErrorLevel {
		return nil, fmt.Errorf("unknown log level %d", int(l))
	}
	return []byte(strings.ToLower(levelNames[l])), nil
}

// UnmarshalText accepts the names ParseLevelStrict accepts.
func (l *Level) UnmarshalText(text []byte) error {
	level, err := ParseLevelStrict(string(text))
	if err != nil {
		return err
	}
	*l = level
	return nil
}

// ParseLevel is ParseLevelStrict falling back to InfoLevel.
func ParseLevel(s string) Level {
	level, err := ParseLevelStrict(s)
	if err != nil {
		return InfoLevel
	}
	return level
}

// ParseLevelStrict parses a level name, ignoring case. "warning" is an alias
// of "warn".
func ParseLevelStrict(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return WarnLevel, nil
	}
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// Field is one key/value pair of a structured entry.
type Field struct {
	Key   string
	Value any
}

// Logger is the structured logger every package accepts through a
// WithLogger option.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a child logger adding fields to every entry.
	With(fields ...Field) Logger
	SetLevel(level Level)
	GetLevel() Level
}

// JSONLogger writes entries as JSON lines.
type JSONLogger struct {
	writer io.Writer
	level  Level
	fields []Field
	mu     *sync.Mutex // shared with child loggers writing to the same writer
}

// LogEntry is the wire shape of one JSON line.
type LogEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// NopLogger discards everything. It is the default of every component.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (n NopLogger) With(...Field) Logger { return n }
func (NopLogger) SetLevel(Level)         {}
func (NopLogger) GetLevel() Level        { return InfoLevel }

// NewNopLogger returns a NopLogger.
func NewNopLogger() Logger {
	return NopLogger{}
}

// TimedOperation logs an operation with its latency when it ends.
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}
