package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLogger_ValidInputs(t *testing.T) {
	cases := []struct {
		level  string
		format string
	}{
		{"info", "json"},
		{"debug", "text"},
		{"warn", "json"},
		{"error", "text"},
		{"WARN", "TEXT"},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		l, err := New(&buf, c.level, c.format)
		if err != nil {
			t.Errorf("expected no error for level=%q format=%q, got %v", c.level, c.format, err)
		}
		if l == nil {
			t.Errorf("expected logger for level=%q format=%q, got nil", c.level, c.format)
		}
	}
}

func TestNewLogger_EmptyStrings(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New(&buf, "", "json"); err == nil {
		t.Error("expected error for empty logLevel, got nil")
	}
	if _, err := New(&buf, "info", ""); err == nil {
		t.Error("expected error for empty logFormat, got nil")
	}
	if _, err := New(nil, "info", "text"); err == nil {
		t.Error("expected error for nil writer, got nil")
	}
}

func TestNewLogger_InvalidValues(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New(&buf, "foo", "json"); err == nil {
		t.Error("expected error for invalid logLevel, got nil")
	}
	if _, err := New(&buf, "info", "bar"); err == nil {
		t.Error("expected error for invalid logFormat, got nil")
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn", "text")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	l.Info("hidden")
	l.Warn("shown", "device", "/dev/sdb")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "device=/dev/sdb") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{" info ", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
