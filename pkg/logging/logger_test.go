package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Failed to unmarshal %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"DEBUG", DebugLevel, false},
		{"info", InfoLevel, false},
		{"Warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"verbose", InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevelStrict(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevelStrict(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseLevelStrict(%q) = %v, want %v", tt.input, got, tt.expected)
			}
			if ParseLevel(tt.input) != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, ParseLevel(tt.input), tt.expected)
			}
		})
	}
}

func TestLevelText(t *testing.T) {
	for _, l := range []Level{DebugLevel, InfoLevel, WarnLevel, ErrorLevel} {
		text, err := l.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", l, err)
		}
		var back Level
		if err := back.UnmarshalText(text); err != nil || back != l {
			t.Errorf("UnmarshalText(%q) = %v, %v; want %v", text, back, err, l)
		}
	}
	if _, err := Level(9).MarshalText(); err == nil {
		t.Error("MarshalText(9) should fail")
	}
	if Level(9).String() != "UNKNOWN" {
		t.Errorf("Level(9).String() = %q", Level(9).String())
	}
}

func TestDomainFields(t *testing.T) {
	tests := []struct {
		field Field
		key   string
		value any
	}{
		{PoolID(7), "pool_id", uint64(7)},
		{RelationID(9), "relation_id", uint64(9)},
		{Subsystem("power"), "subsystem", "power"},
		{Matcher("CA"), "matcher", "CA"},
		{Scale("mini"), "scale", "mini"},
		{RunID("abc"), "run_id", "abc"},
		{Count(3), "count", 3},
		{Latency(2 * time.Second), "latency", "2s"},
		{Error(errors.New("boom")), "error", "boom"},
		{Error(nil), "error", nil},
	}
	for _, tt := range tests {
		if tt.field.Key != tt.key || tt.field.Value != tt.value {
			t.Errorf("field = %+v, want {%s %v}", tt.field, tt.key, tt.value)
		}
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn", Matcher("CA"))
	logger.Error("error")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != "WARN" || entries[0].Fields["matcher"] != "CA" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Level != "ERROR" {
		t.Errorf("second entry level = %s", entries[1].Level)
	}

	logger.SetLevel(DebugLevel)
	logger.Debug("now visible")
	if got := len(decodeLines(t, &buf)); got != 3 {
		t.Errorf("Expected 3 entries after SetLevel, got %d", got)
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("traverser"), Matcher("ALL"))
	child.Info("walk finished", Count(11))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	f := entries[0].Fields
	if f["component"] != "traverser" || f["matcher"] != "ALL" || f["count"] != float64(11) {
		t.Errorf("fields = %v", f)
	}
}

func TestJSONLogger_ConcurrentChildren(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			child := logger.With(Int("worker", i))
			for j := 0; j < 50; j++ {
				child.Info("tick")
			}
		}(i)
	}
	wg.Wait()

	if got := len(decodeLines(t, &buf)); got != 400 {
		t.Errorf("Expected 400 intact entries, got %d", got)
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	StartTimer(logger, "graph built", Scale("mini")).End()
	StartTimer(logger, "build failed").EndError(errors.New("bad spec"))

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if _, ok := entries[0].Fields["latency"]; !ok || entries[0].Fields["scale"] != "mini" {
		t.Errorf("End() fields = %v", entries[0].Fields)
	}
	if entries[1].Level != "ERROR" || entries[1].Fields["error"] != "bad spec" {
		t.Errorf("EndError() entry = %+v", entries[1])
	}
}

func TestJSONLogger_NoFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("message without fields")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if _, exists := entry["fields"]; exists {
		t.Error("Expected fields key to be omitted when empty")
	}
}

func TestGlobalHelperFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))
	defer SetDefaultLogger(NewNopLogger())

	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	ErrorLog("error msg")
	With(Subsystem("ibnet")).Info("child msg")

	entries := decodeLines(t, &buf)
	if len(entries) != 5 {
		t.Fatalf("Expected 5 log entries, got %d", len(entries))
	}
	levels := []string{"DEBUG", "INFO", "WARN", "ERROR", "INFO"}
	for i, want := range levels {
		if entries[i].Level != want {
			t.Errorf("Entry %d level = %v, want %v", i, entries[i].Level, want)
		}
	}
	if entries[4].Fields["subsystem"] != "ibnet" {
		t.Errorf("child entry fields = %v", entries[4].Fields)
	}
}

func TestTimedOperation_EndWithLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	timer := StartTimer(logger, "unused", Matcher("CA"))
	timer.EndWithLevel(WarnLevel, "slow traversal")
	timer.EndWithLevel(Level(42), "unknown level")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != "WARN" || entries[0].Message != "slow traversal" || entries[0].Fields["matcher"] != "CA" {
		t.Errorf("EndWithLevel(Warn) entry = %+v", entries[0])
	}
	if entries[1].Level != "INFO" {
		t.Errorf("EndWithLevel(unknown) level = %v, want INFO", entries[1].Level)
	}
}

func TestEnvLevel(t *testing.T) {
	t.Setenv("RESGRAPH_LOG_LEVEL", "")
	t.Setenv("LOG_LEVEL", "warn")
	if got := envLevel(); got != WarnLevel {
		t.Errorf("envLevel() with LOG_LEVEL = %v, want WARN", got)
	}
	t.Setenv("RESGRAPH_LOG_LEVEL", "debug")
	if got := envLevel(); got != DebugLevel {
		t.Errorf("envLevel() with RESGRAPH_LOG_LEVEL = %v, want DEBUG", got)
	}
}

func TestJSONLogger_CallFieldsOverridePreset(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLogger(&buf, InfoLevel).With(Matcher("CA")).Info("run", Matcher("PA"))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 || entries[0].Fields["matcher"] != "PA" {
		t.Errorf("entries = %+v", entries)
	}
}

func BenchmarkJSONLogger_InfoFiltered(b *testing.B) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, ErrorLevel)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("visit", PoolID(uint64(i)), Matcher("CA"))
	}
}
