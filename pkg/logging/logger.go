// Package logging configures structured logging for the Entrez client using
// zerolog.
//
// Log level guidelines:
//
// Debug: detailed information for debugging
//   - cache operations (hit/miss, key, TTL)
//   - pagination windows (retstart, retmax, retrieved)
//   - backoff delays between retry attempts
//
// Info: normal operation events
//   - completed requests
//   - history sessions created (WebEnv, query key)
//   - CLI startup and configuration
//
// Warn: conditions that don't prevent operation
//   - retry attempts after retryable failures
//   - cache errors (degraded to a miss)
//   - rate limit waits
//
// Error: conditions requiring attention
//   - terminal request failures (after retries)
//   - session expiry on a stored result set
//   - configuration errors
//
// Common context fields:
//   - op: E-utilities endpoint (esearch.fcgi, efetch.fcgi, ...)
//   - status_code: HTTP status code
//   - kind: error taxonomy kind (transport, rate_limit, validation, ...)
//   - attempt: retry attempt number
//   - query_key: history query key
//   - retstart, retmax: pagination window
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	var output io.Writer = cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
