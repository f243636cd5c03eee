package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("Default level = %s, want info", cfg.Level)
	}
	if cfg.Pretty {
		t.Error("Default pretty should be false")
	}
}

func TestSetup_WritesToConfiguredOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := Setup(Config{Level: LevelInfo, Output: buf})

	logger.Info().Str("op", "esearch.fcgi").Msg("request completed")

	output := buf.String()
	if !strings.Contains(output, "request completed") {
		t.Errorf("Expected output to contain message, got %q", output)
	}
	if !strings.Contains(output, "esearch.fcgi") {
		t.Errorf("Expected output to contain op field, got %q", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    LogLevel
		expected zerolog.Level
	}{
		{LevelDebug, zerolog.DebugLevel},
		{LevelInfo, zerolog.InfoLevel},
		{LevelWarn, zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{LevelError, zerolog.ErrorLevel},
		{"invalid", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewLogger_CarriesComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Output: buf})

	logger := NewLogger("rate-limiter")
	logger.Info().Msg("quota applied")

	output := buf.String()
	if !strings.Contains(output, "rate-limiter") {
		t.Errorf("Expected output to contain component, got %q", output)
	}
}

func TestLogLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelWarn, Output: buf})

	logger := NewLogger("executor")
	logger.Debug().Msg("backoff delay")
	logger.Info().Msg("request completed")
	logger.Warn().Msg("retry attempt")
	logger.Error().Msg("retries exhausted")

	output := buf.String()
	if strings.Contains(output, "backoff delay") || strings.Contains(output, "request completed") {
		t.Errorf("Messages below warn should be filtered, got %q", output)
	}
	if !strings.Contains(output, "retry attempt") || !strings.Contains(output, "retries exhausted") {
		t.Errorf("Warn and error messages should pass, got %q", output)
	}
}
