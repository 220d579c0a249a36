package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewReturnsUsableLogger(t *testing.T) {
	logger := New("debug")
	if logger == nil || logger.Logger == nil {
		t.Fatal("expected non-nil logger")
	}
	child := logger.With("component", "test")
	if child == nil || child.Logger == nil {
		t.Fatal("expected non-nil child logger")
	}
	child.Debug("hello", "k", "v")
}

func TestDefaultLogsAtInfo(t *testing.T) {
	logger := Default()
	ctx := context.Background()
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("default logger should not log debug")
	}
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("default logger should log info")
	}
}
