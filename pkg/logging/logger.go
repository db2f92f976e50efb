// Package logging builds the hclog loggers shared by the warp64
// binaries. Level and format come from flags with environment
// fallbacks; log lines never include key material.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Environment variables honored when no flag overrides them.
const (
	envLogLevel = "WARP64_LOG_LEVEL"
	envJSONLog  = "WARP64_JSON_LOG"
)

// NewLogger creates a logger writing to output (stderr when nil).
// With WARP64_JSON_LOG=1 the output is JSON; otherwise each line is
// prefixed so warp64 logs stand out from whatever the key prompt and
// result output print around them.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	jsonFormat := os.Getenv(envJSONLog) == "1"
	if !jsonFormat {
		output = NewPrefixWriter("🌀 ", output)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn:     func() time.Time { return time.Now().UTC() },
	})
}

// GetLogLevel returns the level configured in the environment,
// defaulting to warn.
func GetLogLevel() string {
	if level := os.Getenv(envLogLevel); level != "" {
		return level
	}
	return "warn"
}
