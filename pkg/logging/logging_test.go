package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/errmap/pkg/logging"
)

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level logging.Level
		want  slog.Level
	}{
		{logging.LevelDebug, slog.LevelDebug},
		{logging.LevelInfo, slog.LevelInfo},
		{logging.LevelWarn, slog.LevelWarn},
		{logging.LevelError, slog.LevelError},
		{logging.Level("verbose"), slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := tt.level.SlogLevel(); got != tt.want {
			t.Errorf("%s.SlogLevel() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(
		&logging.Config{Level: logging.LevelWarn, Format: logging.FormatJSON},
		&buf,
	)

	logger.Info("suppressed")
	logger.Warn("emitted", "key", "value")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1", len(lines))
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if entry["msg"] != "emitted" {
		t.Errorf("msg: got %v, want emitted", entry["msg"])
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(
		&logging.Config{Level: logging.LevelInfo, Format: logging.FormatText},
		&buf,
	)

	logger.Info("hello", "key", "value")

	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text output missing msg: %s", buf.String())
	}
}

func TestFinalize(t *testing.T) {
	t.Setenv("TEST_LOG_FORMAT", "json")

	cfg := logging.Config{}
	if err := cfg.Finalize(&logging.Env{Level: "TEST_LOG_LEVEL", Format: "TEST_LOG_FORMAT"}); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Level != logging.LevelInfo {
		t.Errorf("level: got %s, want info", cfg.Level)
	}
	if cfg.Format != logging.FormatJSON {
		t.Errorf("format: got %s, want json", cfg.Format)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     logging.Config
		wantErr string
	}{
		{"invalid level", logging.Config{Level: "trace"}, "invalid log level"},
		{"invalid format", logging.Config{Format: "xml"}, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := logging.Config{Level: logging.LevelInfo, Format: logging.FormatText}
	base.Merge(&logging.Config{Format: logging.FormatJSON})

	if base.Level != logging.LevelInfo {
		t.Errorf("level should remain info, got %s", base.Level)
	}
	if base.Format != logging.FormatJSON {
		t.Errorf("format: got %s, want json", base.Format)
	}
}
