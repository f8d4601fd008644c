package logger

import (
	"testing"
)

func TestNewLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "unknown", ""} {
		if lg := NewLogger(level); lg == nil {
			t.Fatalf("expected logger for level %q", level)
		}
	}
}

func TestInitReplacesGlobal(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()

	Init("debug")
	if Log == nil {
		t.Fatal("expected global logger to be set")
	}
}
