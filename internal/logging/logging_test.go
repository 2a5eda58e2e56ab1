package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_EmptyLevelIsSilent(t *testing.T) {
	logger, err := New("", "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected nop logger")
	}
}

func TestNew_LevelApplied(t *testing.T) {
	logger, err := New("warn", "json")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info must be filtered at warn level")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("warn must be enabled")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"loud":    zapcore.InfoLevel,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, "info")
	logger.Debug("hidden")
	logger.Info("lead stored")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry leaked: %q", out)
	}
	if !strings.Contains(out, "lead stored") {
		t.Fatalf("expected info entry, got %q", out)
	}
}
