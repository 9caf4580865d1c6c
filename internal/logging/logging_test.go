package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 6000000, time.UTC)
}

func newTestLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(Config{Level: level, Output: &buf, Prefix: "test"})
	l.now = fixedClock
	return l, &buf
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = %q, expected %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{" info ", LevelInfo},
		{"warn", LevelWarn},
		{"WARNING", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestLoggerFormat(t *testing.T) {
	l, buf := newTestLogger(LevelDebug)

	l.Info("hello %s", "world")

	want := "2026-01-02T03:04:05.006 [INFO] test: hello world\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	l, buf := newTestLogger(LevelWarn)

	l.Debug("debug")
	l.Info("info")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}

	l.Warn("warn")
	l.Error("error")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "[WARN]") || !strings.Contains(lines[1], "[ERROR]") {
		t.Errorf("unexpected lines: %q", lines)
	}
}

func TestLoggerFieldsSorted(t *testing.T) {
	l, buf := newTestLogger(LevelDebug)

	l.WithFields(map[string]any{"b": 2, "a": 1}).WithComponent("dstring").Debug("grow")

	want := "2026-01-02T03:04:05.006 [DEBUG] test: grow {a=1, b=2, component=dstring}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestLoggerWithFieldDoesNotMutateParent(t *testing.T) {
	l, buf := newTestLogger(LevelDebug)

	_ = l.WithField("k", "v")
	l.Info("plain")

	if strings.Contains(buf.String(), "k=v") {
		t.Errorf("parent logger picked up child field: %q", buf.String())
	}
}

func TestLoggerDisableEnable(t *testing.T) {
	l, buf := newTestLogger(LevelDebug)

	l.Disable()
	l.Error("hidden")
	if buf.Len() != 0 {
		t.Fatalf("disabled logger wrote %q", buf.String())
	}
	if l.Enabled(LevelError) {
		t.Error("Enabled should be false while disabled")
	}

	l.Enable()
	l.Error("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected output after Enable, got %q", buf.String())
	}
}

func TestNullLogger(t *testing.T) {
	if Null.Enabled(LevelError) {
		t.Error("Null logger should not be enabled")
	}
	Null.WithField("a", 1).Error("nothing")
}
